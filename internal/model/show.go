package model

import "time"

// ShowStatus is the lifecycle state of a scheduled show.
type ShowStatus string

const (
	ShowScheduled ShowStatus = "SCHEDULED"
	ShowCancelled ShowStatus = "CANCELLED"
	ShowFinished  ShowStatus = "FINISHED"
)

// Show represents a scheduled screening of a movie in a particular
// hall.  The schedule interval is half-open [StartsAt, EndsAt): two
// shows in the same hall may share a boundary instant but may not
// otherwise overlap.
//
// Fields:
//  ID             – primary key identifier.
//  MovieID        – movie being screened.
//  HallID         – hall where the show takes place.
//  StartsAt       – when the show begins (UTC).
//  EndsAt         – when the show ends (UTC, after StartsAt).
//  BasePriceCents – base seat price in cents before seat-type premium.
//  Status         – current state of the show.
//  CreatedAt      – creation timestamp.
//  UpdatedAt      – last update timestamp.
type Show struct {
	ID             uint64     `json:"id"`               // shows.id
	MovieID        uint64     `json:"movie_id"`         // shows.movie_id
	HallID         uint64     `json:"hall_id"`          // shows.hall_id
	StartsAt       time.Time  `json:"starts_at"`        // shows.starts_at
	EndsAt         time.Time  `json:"ends_at"`          // shows.ends_at
	BasePriceCents uint32     `json:"base_price_cents"` // shows.base_price_cents
	Status         ShowStatus `json:"status"`           // shows.status
	CreatedAt      time.Time  `json:"created_at"`       // shows.created_at
	UpdatedAt      time.Time  `json:"updated_at"`       // shows.updated_at
}
