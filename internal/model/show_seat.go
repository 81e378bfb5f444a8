package model

import "time"

// SeatStatus is the availability state of one seat for one show.
// Transitions are FREE→HELD→BOOKED and HELD→FREE; BOOKED is
// terminal for the show.
type SeatStatus string

const (
	SeatFree   SeatStatus = "FREE"
	SeatHeld   SeatStatus = "HELD"
	SeatBooked SeatStatus = "BOOKED"
)

// ShowSeat is the bookable unit: one seat, for one show, with its
// own price and status.  Exactly one row exists per (show, seat)
// pair, created atomically when the show is scheduled.  BookingID
// identifies the current holder while the seat is HELD or BOOKED;
// it is nil while the seat is FREE.
//
// Fields:
//  ID         – primary key identifier.
//  ShowID     – the show to which this seat belongs.
//  SeatID     – the seat being made available.
//  Status     – availability status (FREE, HELD, BOOKED).
//  PriceCents – price in cents computed at scheduling time.
//  BookingID  – booking currently holding the seat, if any.
//  HeldAt     – when the current hold was placed, if any.
//  CreatedAt  – timestamp when the record was created.
//  UpdatedAt  – timestamp when the record was last updated.
type ShowSeat struct {
	ID         uint64     `json:"id"`                   // show_seats.id
	ShowID     uint64     `json:"show_id"`              // show_seats.show_id
	SeatID     uint64     `json:"seat_id"`              // show_seats.seat_id
	Status     SeatStatus `json:"status"`               // show_seats.status
	PriceCents uint32     `json:"price_cents"`          // show_seats.price_cents
	BookingID  *uint64    `json:"booking_id,omitempty"` // show_seats.booking_id (nullable)
	HeldAt     *time.Time `json:"held_at,omitempty"`    // show_seats.held_at (nullable)
	CreatedAt  time.Time  `json:"created_at"`           // show_seats.created_at
	UpdatedAt  time.Time  `json:"updated_at"`           // show_seats.updated_at
}
