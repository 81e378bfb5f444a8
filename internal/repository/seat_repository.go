package repository // repository defines data access for seats

import (
	"context"
	"database/sql"

	"cinebook/internal/model"
)

// SeatRepo is the seat catalog: the static per-hall seat
// configuration read by the scheduler and the booking flow. Seats
// are immutable after creation.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo constructs a SeatRepo with the given DB handle.
func NewSeatRepo(db *sql.DB) *SeatRepo {
	return &SeatRepo{db: db}
}

// CreateBulk inserts multiple seats in a single statement.
func (r *SeatRepo) CreateBulk(ctx context.Context, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (hall_id, seat_number, seat_type) VALUES `
	args := make([]interface{}, 0, len(seats)*3)
	for i, seat := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, seat.HallID, seat.SeatNumber, string(seat.SeatType))
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	if isDuplicateKey(err) {
		return ErrConflict
	}
	return err
}

// ListByHall retrieves all seats of a hall ordered by seat number.
// Unknown halls yield ErrHallNotFound so callers can distinguish an
// empty hall from a missing one.
func (r *SeatRepo) ListByHall(ctx context.Context, hallID uint64) ([]model.Seat, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM halls WHERE id = ?)`, hallID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrHallNotFound
	}
	const q = `SELECT id, hall_id, seat_number, seat_type, created_at
	           FROM seats WHERE hall_id = ? ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		var st string
		if err := rows.Scan(&s.ID, &s.HallID, &s.SeatNumber, &st, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.SeatType = model.SeatType(st)
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListByHallTx is ListByHall running inside the caller's transaction,
// used by the scheduler so the seat snapshot and the show seat
// materialization observe the same state.
func (r *SeatRepo) ListByHallTx(ctx context.Context, tx *sql.Tx, hallID uint64) ([]model.Seat, error) {
	const q = `SELECT id, hall_id, seat_number, seat_type, created_at
	           FROM seats WHERE hall_id = ? ORDER BY seat_number`
	rows, err := tx.QueryContext(ctx, q, hallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Seat
	for rows.Next() {
		var s model.Seat
		var st string
		if err := rows.Scan(&s.ID, &s.HallID, &s.SeatNumber, &st, &s.CreatedAt); err != nil {
			return nil, err
		}
		s.SeatType = model.SeatType(st)
		out = append(out, s)
	}
	return out, rows.Err()
}
