package model

import "time"

// Cinema is the top of the ownership chain: a cinema owns halls and
// halls own seats.  Back-references are expressed only through
// foreign keys, never as mutable object graphs.  This struct
// corresponds to a row in the `cinemas` table.
//
// Fields:
//  ID         – primary key identifier.
//  Name       – display name of the cinema.
//  City       – city where the cinema is located.
//  TotalHalls – number of halls configured for this cinema.
//  CreatedAt  – timestamp when the cinema was created.
//  UpdatedAt  – timestamp of last update.
type Cinema struct {
	ID         uint64    `json:"id"`          // cinemas.id
	Name       string    `json:"name"`        // cinemas.name
	City       string    `json:"city"`        // cinemas.city
	TotalHalls uint32    `json:"total_halls"` // cinemas.total_halls
	CreatedAt  time.Time `json:"created_at"`  // cinemas.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // cinemas.updated_at
}
