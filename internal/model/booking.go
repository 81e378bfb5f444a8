package model

import "time"

// BookingStatus is the lifecycle state of a booking.  PENDING means
// seats are held awaiting payment; CONFIRMED, CANCELLED and EXPIRED
// are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// Terminal reports whether s admits no further transitions.
func (s BookingStatus) Terminal() bool {
	return s == BookingConfirmed || s == BookingCancelled || s == BookingExpired
}

// Booking records a user's claim on one or more seats of a show.
// The seats themselves are tracked by the reservation ledger via
// show_seats.booking_id; the booking row carries the aggregate.
//
// Fields:
//  ID               – primary key identifier.
//  UserID           – user who made the booking (external identity).
//  ShowID           – show being booked.
//  SeatCount        – number of seats requested.
//  TotalAmountCents – total price in cents for all seats.
//  Status           – state of the booking.
//  CreatedAt        – creation timestamp.
//  UpdatedAt        – last update timestamp.
type Booking struct {
	ID               uint64        `json:"id"`                 // bookings.id
	UserID           uint64        `json:"user_id"`            // bookings.user_id
	ShowID           uint64        `json:"show_id"`            // bookings.show_id
	SeatCount        uint32        `json:"seat_count"`         // bookings.seat_count
	TotalAmountCents uint32        `json:"total_amount_cents"` // bookings.total_amount_cents
	Status           BookingStatus `json:"status"`             // bookings.status
	CreatedAt        time.Time     `json:"created_at"`         // bookings.created_at
	UpdatedAt        time.Time     `json:"updated_at"`         // bookings.updated_at
}
