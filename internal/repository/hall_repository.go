package repository // repository defines data access for halls

import (
	"context"
	"database/sql"
	"errors"

	"cinebook/internal/model"
)

// ErrHallNotFound is returned when a hall lookup yields no rows.
var ErrHallNotFound = errors.New("hall not found")

// HallRepo provides methods to work with halls in the database.
type HallRepo struct {
	db *sql.DB
}

// NewHallRepo constructs a HallRepo with the given DB handle.
func NewHallRepo(db *sql.DB) *HallRepo {
	return &HallRepo{db: db}
}

// Create inserts a hall record. On success the hall's ID is populated.
func (r *HallRepo) Create(ctx context.Context, h *model.Hall) error {
	const q = `INSERT INTO halls (cinema_id, name, total_seats) VALUES (?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, h.CinemaID, h.Name, h.TotalSeats)
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
	h.ID = uint64(id)
	return nil
}

// GetByID retrieves a hall by its ID. It returns ErrHallNotFound when
// there is no matching row.
func (r *HallRepo) GetByID(ctx context.Context, id uint64) (*model.Hall, error) {
	const q = `SELECT id, cinema_id, name, total_seats, created_at, updated_at FROM halls WHERE id = ?`
	var h model.Hall
	err := r.db.QueryRowContext(ctx, q, id).Scan(&h.ID, &h.CinemaID, &h.Name, &h.TotalSeats, &h.CreatedAt, &h.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrHallNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// ListByCinema returns all halls of a cinema ordered by name.
func (r *HallRepo) ListByCinema(ctx context.Context, cinemaID uint64) ([]model.Hall, error) {
	const q = `SELECT id, cinema_id, name, total_seats, created_at, updated_at
	           FROM halls WHERE cinema_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, cinemaID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Hall
	for rows.Next() {
		var h model.Hall
		if err := rows.Scan(&h.ID, &h.CinemaID, &h.Name, &h.TotalSeats, &h.CreatedAt, &h.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// UpdateSeatTotal sets total_seats after seat configuration so the
// hall row reflects the actual seat count.
func (r *HallRepo) UpdateSeatTotal(ctx context.Context, hallID uint64, total uint32) error {
	const q = `UPDATE halls SET total_seats = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, total, hallID)
	return err
}
