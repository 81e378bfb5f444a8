package model

import "time"

// Movie is the catalog entry a show screens.  A movie exists
// independently of any schedule; shows reference it by ID.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – movie title.
//  Description – synopsis text.
//  DurationMin – running time in minutes.
//  ReleaseDate – theatrical release date.
//  Language    – audio language.
//  Genre       – primary genre label.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Movie struct {
	ID          uint64    `json:"id"`           // movies.id
	Title       string    `json:"title"`        // movies.title
	Description string    `json:"description"`  // movies.description
	DurationMin uint32    `json:"duration_min"` // movies.duration_min
	ReleaseDate time.Time `json:"release_date"` // movies.release_date
	Language    string    `json:"language"`     // movies.language
	Genre       string    `json:"genre"`        // movies.genre
	CreatedAt   time.Time `json:"created_at"`   // movies.created_at
	UpdatedAt   time.Time `json:"updated_at"`   // movies.updated_at
}
