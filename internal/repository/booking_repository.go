package repository

import (
	"context"
	"database/sql"
	"errors"

	"cinebook/internal/model"
)

// ErrBookingNotFound is returned when a booking lookup yields no rows.
var ErrBookingNotFound = errors.New("booking not found")

// BookingRepo provides CRUD operations for bookings.  Status updates
// are guarded: the expected current status is part of the WHERE
// clause, so the loser of a confirm/cancel/expire race observes
// ErrConflict instead of clobbering a terminal state.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// Create inserts a new booking with status PENDING and populates its
// generated ID and DB-default fields.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	const q = `INSERT INTO bookings (user_id, show_id, seat_count, total_amount_cents, status) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, b.UserID, b.ShowID, b.SeatCount, b.TotalAmountCents, string(model.BookingPending))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)
	const sel = `SELECT id, user_id, show_id, seat_count, total_amount_cents, status, created_at, updated_at
	             FROM bookings WHERE id = ?`
	var status string
	err = r.db.QueryRowContext(ctx, sel, b.ID).Scan(
		&b.ID, &b.UserID, &b.ShowID, &b.SeatCount, &b.TotalAmountCents,
		&status, &b.CreatedAt, &b.UpdatedAt,
	)
	b.Status = model.BookingStatus(status)
	return err
}

// GetByID retrieves a booking by its ID.  It returns
// ErrBookingNotFound when there is no matching row.
func (r *BookingRepo) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	const q = `SELECT id, user_id, show_id, seat_count, total_amount_cents, status, created_at, updated_at
	           FROM bookings WHERE id = ?`
	var b model.Booking
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&b.ID, &b.UserID, &b.ShowID, &b.SeatCount, &b.TotalAmountCents,
		&status, &b.CreatedAt, &b.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	b.Status = model.BookingStatus(status)
	return &b, nil
}

// UpdateStatus transitions a booking from an expected status to a new
// one.  When the row no longer carries the expected status the update
// affects zero rows and ErrConflict is returned; callers translate
// that into their race-resolution policy.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	const q = `UPDATE bookings SET status = ? WHERE id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, q, string(to), id, string(from))
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	return nil
}

// ListByUser returns all bookings created by a user, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	const q = `SELECT id, user_id, show_id, seat_count, total_amount_cents, status, created_at, updated_at
	           FROM bookings WHERE user_id = ? ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.UserID, &b.ShowID, &b.SeatCount, &b.TotalAmountCents,
			&status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}

// ListPendingWithBookedSeats finds bookings stuck between ledger
// confirm and payment recording: still PENDING while at least one of
// their seats is already BOOKED.  The reconciliation job repairs
// these after a crash.
func (r *BookingRepo) ListPendingWithBookedSeats(ctx context.Context) ([]model.Booking, error) {
	const q = `SELECT b.id, b.user_id, b.show_id, b.seat_count, b.total_amount_cents, b.status, b.created_at, b.updated_at
	           FROM bookings b
	           WHERE b.status = 'PENDING'
	             AND EXISTS (SELECT 1 FROM show_seats ss WHERE ss.booking_id = b.id AND ss.status = 'BOOKED')`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Booking
	for rows.Next() {
		var b model.Booking
		var status string
		if err := rows.Scan(&b.ID, &b.UserID, &b.ShowID, &b.SeatCount, &b.TotalAmountCents,
			&status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, err
		}
		b.Status = model.BookingStatus(status)
		out = append(out, b)
	}
	return out, rows.Err()
}
