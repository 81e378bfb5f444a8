package model

import "time"

// Hall represents an individual screening hall within a cinema.
// Each hall has a fixed set of seats configured once; shows are
// scheduled into halls and show seats are materialized from the
// hall's seat list.
//
// Fields:
//  ID         – primary key identifier.
//  CinemaID   – ID of the owning cinema.
//  Name       – hall name, unique per cinema.
//  TotalSeats – number of seats configured in this hall.
//  CreatedAt  – creation timestamp.
//  UpdatedAt  – last update timestamp.
type Hall struct {
	ID         uint64    `json:"id"`          // halls.id
	CinemaID   uint64    `json:"cinema_id"`   // halls.cinema_id
	Name       string    `json:"name"`        // halls.name
	TotalSeats uint32    `json:"total_seats"` // halls.total_seats
	CreatedAt  time.Time `json:"created_at"`  // halls.created_at
	UpdatedAt  time.Time `json:"updated_at"`  // halls.updated_at
}
