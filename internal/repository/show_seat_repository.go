package repository // repository for show seat persistence

import (
	"context"
	"database/sql"

	"cinebook/internal/model"
)

// ShowSeatRepo encapsulates database operations for show_seats that
// sit outside the reservation ledger: bulk materialization at
// scheduling time and read paths for availability and pricing.
// State transitions on show_seats go through the ledger only.
type ShowSeatRepo struct {
	db *sql.DB
}

// NewShowSeatRepo constructs a ShowSeatRepo given a DB handle.
func NewShowSeatRepo(db *sql.DB) *ShowSeatRepo {
	return &ShowSeatRepo{db: db}
}

// CreateBulkTx inserts one show_seat row per entry in a single
// statement within the caller's transaction.  Only show_id, seat_id,
// status and price_cents are inserted; timestamps default in the DB.
// The scheduler uses this to materialize every hall seat atomically
// with the show row.
func (r *ShowSeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, seats []model.ShowSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO show_seats (show_id, seat_id, status, price_cents) VALUES `
	args := make([]interface{}, 0, len(seats)*4)
	for i, ss := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?)"
		args = append(args, ss.ShowID, ss.SeatID, string(ss.Status), ss.PriceCents)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}

// ListByShow returns seat availability for a show joined with the
// seat catalog, ordered by seat number.  Unknown shows yield
// ErrShowNotFound.
func (r *ShowSeatRepo) ListByShow(ctx context.Context, showID uint64) ([]ShowSeatView, error) {
	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM shows WHERE id = ?)`, showID).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrShowNotFound
	}
	const q = `SELECT ss.seat_id, s.seat_number, s.seat_type, ss.status, ss.price_cents
	           FROM show_seats ss
	           JOIN seats s ON s.id = ss.seat_id
	           WHERE ss.show_id = ?
	           ORDER BY s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ShowSeatView
	for rows.Next() {
		var v ShowSeatView
		var st, status string
		if err := rows.Scan(&v.SeatID, &v.SeatNumber, &st, &status, &v.PriceCents); err != nil {
			return nil, err
		}
		v.SeatType = model.SeatType(st)
		v.Status = model.SeatStatus(status)
		out = append(out, v)
	}
	return out, rows.Err()
}

// ShowSeatView is the availability projection returned by ListByShow:
// one seat of one show with its catalog attributes and current status.
type ShowSeatView struct {
	SeatID     uint64           `json:"seat_id"`
	SeatNumber uint32           `json:"seat_number"`
	SeatType   model.SeatType   `json:"seat_type"`
	Status     model.SeatStatus `json:"status"`
	PriceCents uint32           `json:"price_cents"`
}

// PricesForSeats returns price_cents keyed by seat ID for the given
// seats of a show.  Seats absent from the show are simply missing
// from the map; the caller decides whether that is an error.
func (r *ShowSeatRepo) PricesForSeats(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error) {
	if len(seatIDs) == 0 {
		return map[uint64]uint32{}, nil
	}
	query := `SELECT seat_id, price_cents FROM show_seats WHERE show_id = ? AND seat_id IN (`
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for i, id := range seatIDs {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += ")"
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	prices := make(map[uint64]uint32, len(seatIDs))
	for rows.Next() {
		var sid uint64
		var cents uint32
		if err := rows.Scan(&sid, &cents); err != nil {
			return nil, err
		}
		prices[sid] = cents
	}
	return prices, rows.Err()
}

// SeatNumbersForBooking returns the catalog seat numbers currently
// attached to a booking, ordered ascending.  Used to label tickets
// and event payloads.
func (r *ShowSeatRepo) SeatNumbersForBooking(ctx context.Context, bookingID uint64) ([]uint32, error) {
	const q = `SELECT s.seat_number
	           FROM show_seats ss
	           JOIN seats s ON s.id = ss.seat_id
	           WHERE ss.booking_id = ?
	           ORDER BY s.seat_number`
	rows, err := r.db.QueryContext(ctx, q, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []uint32
	for rows.Next() {
		var n uint32
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
