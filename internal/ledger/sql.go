package ledger

import (
	"context"
	"database/sql"
	"sort"
	"time"
)

// SQLLedger is the production ledger.  Every operation runs in its
// own transaction and takes row locks with SELECT ... FOR UPDATE.
// Seat rows are always locked in ascending seat-id order, which makes
// concurrent holds over overlapping seat sets serialize instead of
// deadlocking.
type SQLLedger struct {
	db *sql.DB
}

// NewSQLLedger returns a ledger backed by the given database.
func NewSQLLedger(db *sql.DB) *SQLLedger { return &SQLLedger{db: db} }

// Hold implements Ledger.Hold.  The check and the transition happen
// under the same row locks, so two concurrent holds on overlapping
// seat sets cannot both observe FREE.
func (l *SQLLedger) Hold(ctx context.Context, showID uint64, seatIDs []uint64, bookingID uint64) error {
	ids := dedupeSorted(seatIDs)
	if len(ids) == 0 {
		return &SeatUnavailableError{ShowID: showID}
	}
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Lock the seat rows in ascending seat-id order. ORDER BY over the
	// (show_id, seat_id) index makes MySQL acquire the locks in that
	// order.
	query := `SELECT seat_id, status FROM show_seats WHERE show_id = ? AND seat_id IN (`
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, showID)
	for i, id := range ids {
		if i > 0 {
			query += ","
		}
		query += "?"
		args = append(args, id)
	}
	query += `) ORDER BY seat_id FOR UPDATE`

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return err
	}
	free := make(map[uint64]bool, len(ids))
	for rows.Next() {
		var sid uint64
		var status string
		if err := rows.Scan(&sid, &status); err != nil {
			rows.Close()
			return err
		}
		free[sid] = status == "FREE"
	}
	if err := rows.Close(); err != nil {
		return err
	}
	// Missing rows count as unavailable: the seat does not exist for
	// this show.
	var bad []uint64
	for _, id := range ids {
		if isFree, exists := free[id]; !exists || !isFree {
			bad = append(bad, id)
		}
	}
	if len(bad) > 0 {
		return &SeatUnavailableError{ShowID: showID, SeatIDs: bad}
	}

	update := `UPDATE show_seats SET status = 'HELD', booking_id = ?, held_at = UTC_TIMESTAMP() WHERE show_id = ? AND seat_id IN (`
	uargs := make([]interface{}, 0, len(ids)+2)
	uargs = append(uargs, bookingID, showID)
	for i, id := range ids {
		if i > 0 {
			update += ","
		}
		update += "?"
		uargs = append(uargs, id)
	}
	update += ")"
	if _, err := tx.ExecContext(ctx, update, uargs...); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Confirm implements Ledger.Confirm.
func (l *SQLLedger) Confirm(ctx context.Context, bookingID uint64) error {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	rows, err := tx.QueryContext(ctx,
		`SELECT status FROM show_seats WHERE booking_id = ? ORDER BY seat_id FOR UPDATE`, bookingID)
	if err != nil {
		return err
	}
	n := 0
	allHeld := true
	for rows.Next() {
		var status string
		if err := rows.Scan(&status); err != nil {
			rows.Close()
			return err
		}
		n++
		if status != "HELD" {
			allHeld = false
		}
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if n == 0 || !allHeld {
		return ErrInvalidState
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE show_seats SET status = 'BOOKED' WHERE booking_id = ? AND status = 'HELD'`, bookingID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Release implements Ledger.Release.  Only HELD seats are touched, so
// releasing a confirmed or already-released booking is a no-op.
func (l *SQLLedger) Release(ctx context.Context, bookingID uint64) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE show_seats SET status = 'FREE', booking_id = NULL, held_at = NULL WHERE booking_id = ? AND status = 'HELD'`,
		bookingID)
	return err
}

// ExpireStaleHolds implements Ledger.ExpireStaleHolds.
func (l *SQLLedger) ExpireStaleHolds(ctx context.Context, now time.Time, holdTimeout time.Duration) ([]uint64, error) {
	cutoff := now.UTC().Add(-holdTimeout)
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Plain SELECT ... FOR UPDATE; dedupe in Go because FOR UPDATE
	// with DISTINCT is not portable.
	rows, err := tx.QueryContext(ctx,
		`SELECT booking_id FROM show_seats WHERE status = 'HELD' AND held_at <= ? ORDER BY seat_id FOR UPDATE`, cutoff)
	if err != nil {
		return nil, err
	}
	seen := make(map[uint64]struct{})
	var bookingIDs []uint64
	for rows.Next() {
		var bid uint64
		if err := rows.Scan(&bid); err != nil {
			rows.Close()
			return nil, err
		}
		if _, ok := seen[bid]; !ok {
			seen[bid] = struct{}{}
			bookingIDs = append(bookingIDs, bid)
		}
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(bookingIDs) == 0 {
		if err := tx.Commit(); err != nil {
			return nil, err
		}
		committed = true
		return []uint64{}, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE show_seats SET status = 'FREE', booking_id = NULL, held_at = NULL WHERE status = 'HELD' AND held_at <= ?`,
		cutoff); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return bookingIDs, nil
}

// dedupeSorted returns the unique seat IDs in ascending order,
// dropping zeroes.  The sort establishes the system-wide lock order.
func dedupeSorted(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
