package repository

import (
	"context"
	"database/sql"
	"errors"

	"cinebook/internal/model"
)

// ErrPaymentNotFound is returned when a payment lookup yields no rows.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo persists payment outcomes against bookings.  One row
// per booking, enforced by a unique key on booking_id; creating a
// duplicate surfaces ErrConflict so duplicate confirmation callbacks
// stay idempotent at the persistence boundary too.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a new PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

// Create inserts a payment record. On success the payment's ID is
// populated. A duplicate booking_id yields ErrConflict.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (booking_id, amount_cents, discount_cents, method, external_trx_id)
	           VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.BookingID, p.AmountCents, p.DiscountCents, p.Method, p.ExternalTrxID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	return nil
}

// GetByBooking retrieves the payment recorded for a booking.  It
// returns ErrPaymentNotFound when there is no row, which is how the
// workflow and the reconciler detect an unrecorded confirmation.
func (r *PaymentRepo) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	const q = `SELECT id, booking_id, amount_cents, discount_cents, method, external_trx_id, created_at
	           FROM payments WHERE booking_id = ?`
	var p model.Payment
	err := r.db.QueryRowContext(ctx, q, bookingID).Scan(
		&p.ID, &p.BookingID, &p.AmountCents, &p.DiscountCents, &p.Method, &p.ExternalTrxID, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
