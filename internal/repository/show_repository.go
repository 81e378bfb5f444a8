// Package repository contains data access logic for show scheduling.
// A Show is a screening of a movie in a hall over a half-open
// [starts_at, ends_at) interval; overlap queries below implement the
// half-open comparison so shows sharing a boundary instant do not
// conflict.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"cinebook/internal/model"
)

// ErrShowNotFound indicates that a show was not located in the DB.
var ErrShowNotFound = errors.New("show not found")

// ShowRepo manages persistence for shows.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// CreateTx inserts a new show within the caller's transaction.  On
// success the generated ID and DB-default fields (status, timestamps)
// are populated on the given Show.  The caller must commit or roll
// back the transaction.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (movie_id, hall_id, starts_at, ends_at, base_price_cents) VALUES (?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.MovieID, s.HallID, s.StartsAt.UTC(), s.EndsAt.UTC(), s.BasePriceCents)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	const sel = `SELECT id, movie_id, hall_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	             FROM shows WHERE id = ?`
	var status string
	err = tx.QueryRowContext(ctx, sel, s.ID).Scan(
		&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.EndsAt,
		&s.BasePriceCents, &status, &s.CreatedAt, &s.UpdatedAt,
	)
	s.Status = model.ShowStatus(status)
	return err
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows WHERE id = ?`
	var s model.Show
	var status string
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.EndsAt,
		&s.BasePriceCents, &status, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShowNotFound
	}
	if err != nil {
		return nil, err
	}
	s.Status = model.ShowStatus(status)
	return &s, nil
}

// ListByHall returns all non-cancelled shows of a hall ordered by start time.
func (r *ShowRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Show, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows WHERE hall_id = ? AND status <> 'CANCELLED' ORDER BY starts_at`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Show
	for rows.Next() {
		var s model.Show
		var status string
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.EndsAt,
			&s.BasePriceCents, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = model.ShowStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListScheduledByHallTx returns the SCHEDULED shows of a hall inside
// the caller's transaction.  The scheduler calls it while holding the
// hall lock and performs the half-open overlap check on the result,
// so the check-then-insert is atomic.
func (r *ShowRepo) ListScheduledByHallTx(ctx context.Context, tx *sql.Tx, hallID uint64) ([]model.Show, error) {
	const q = `SELECT id, movie_id, hall_id, starts_at, ends_at, base_price_cents, status, created_at, updated_at
	           FROM shows
	           WHERE hall_id = ? AND status = 'SCHEDULED'`
	rows, err := tx.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Show
	for rows.Next() {
		var s model.Show
		var status string
		if err := rows.Scan(&s.ID, &s.MovieID, &s.HallID, &s.StartsAt, &s.EndsAt,
			&s.BasePriceCents, &status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		s.Status = model.ShowStatus(status)
		out = append(out, s)
	}
	return out, rows.Err()
}

// LockHallTx takes an exclusive row lock on the hall inside the
// caller's transaction.  The scheduler acquires it before the overlap
// check so two concurrent ScheduleShow calls for the same hall
// serialize instead of both passing the check.
func (r *ShowRepo) LockHallTx(ctx context.Context, tx *sql.Tx, hallID uint64) error {
	var id uint64
	err := tx.QueryRowContext(ctx, `SELECT id FROM halls WHERE id = ? FOR UPDATE`, hallID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrHallNotFound
	}
	return err
}
