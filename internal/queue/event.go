// Package queue defines message payloads exchanged over the message
// broker and the publisher/consumer endpoints for them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// confirmed and its payment recorded.  It carries enough information
// for downstream consumers to log, notify, or feed analytics without
// querying the primary database.
type BookingConfirmedEvent struct {
	BookingID        uint64   `json:"booking_id"`
	UserID           uint64   `json:"user_id"`
	ShowID           uint64   `json:"show_id"`
	MovieTitle       string   `json:"movie_title"`
	HallName         string   `json:"hall_name"`
	SeatNumbers      []uint32 `json:"seats"`
	TotalAmountCents uint32   `json:"total_amount_cents"`
	ExternalTrxID    string   `json:"external_trx_id"`
	ConfirmedAt      string   `json:"confirmed_at"`
}

// BookingExpiredEvent is published by the hold sweep for each booking
// whose seats were released after the hold timeout elapsed without
// payment confirmation.
type BookingExpiredEvent struct {
	BookingID uint64 `json:"booking_id"`
	ExpiredAt string `json:"expired_at"`
}
