package model

import "time"

// Payment records the outcome of the external payment collaborator
// against a booking.  A row is created only when the booking reaches
// CONFIRMED, and only after the ledger has durably marked the seats
// BOOKED; the reconciliation job closes the gap a crash between the
// two steps can leave.
//
// Fields:
//  ID            – primary key identifier.
//  BookingID     – booking this payment settles (unique).
//  AmountCents   – amount charged in cents.
//  DiscountCents – discount applied in cents, zero when none.
//  Method        – payment method label (e.g. CARD, WALLET).
//  ExternalTrxID – transaction id returned by the payment collaborator.
//  CreatedAt     – creation timestamp.
type Payment struct {
	ID            uint64    `json:"id"`              // payments.id
	BookingID     uint64    `json:"booking_id"`      // payments.booking_id
	AmountCents   uint32    `json:"amount_cents"`    // payments.amount_cents
	DiscountCents uint32    `json:"discount_cents"`  // payments.discount_cents
	Method        string    `json:"method"`          // payments.method
	ExternalTrxID string    `json:"external_trx_id"` // payments.external_trx_id
	CreatedAt     time.Time `json:"created_at"`      // payments.created_at
}
