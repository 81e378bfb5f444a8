package model

import "time"

// SeatType classifies a seat for pricing purposes.  The set is
// closed: persistence and pricing both reject unknown values.
type SeatType string

const (
	SeatTypeSimple   SeatType = "SIMPLE"
	SeatTypeVIP      SeatType = "VIP"
	SeatTypeSuperVIP SeatType = "SUPER_VIP"
)

// Valid reports whether t is one of the known seat types.
func (t SeatType) Valid() bool {
	switch t {
	case SeatTypeSimple, SeatTypeVIP, SeatTypeSuperVIP:
		return true
	}
	return false
}

// Seat describes a physical seat in a hall.  Seats are uniquely
// identified by their hall and seat number and are immutable after
// hall configuration.
//
// Fields:
//  ID         – primary key identifier.
//  HallID     – hall to which this seat belongs.
//  SeatNumber – number of the seat, unique within the hall.
//  SeatType   – pricing class of the seat.
//  CreatedAt  – creation timestamp.
type Seat struct {
	ID         uint64    `json:"id"`          // seats.id
	HallID     uint64    `json:"hall_id"`     // seats.hall_id
	SeatNumber uint32    `json:"seat_number"` // seats.seat_number
	SeatType   SeatType  `json:"seat_type"`   // seats.seat_type
	CreatedAt  time.Time `json:"created_at"`  // seats.created_at
}
