package ledger

import (
	"context"
	"sync"
	"time"
)

// memSeat is the in-memory mirror of a show_seats row.
type memSeat struct {
	showID    uint64
	seatID    uint64
	status    string // FREE, HELD, BOOKED
	bookingID uint64 // valid while HELD or BOOKED
	heldAt    time.Time
}

type seatKey struct {
	showID uint64
	seatID uint64
}

// MemoryLedger keeps all seat state in a map behind a single mutex.
// It backs tests and the dev environment; the semantics match
// SQLLedger exactly, including all-or-nothing holds and idempotent
// release.
type MemoryLedger struct {
	mu    sync.Mutex
	seats map[seatKey]*memSeat
	nowFn func() time.Time // overridable in tests
}

// NewMemoryLedger returns an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		seats: make(map[seatKey]*memSeat),
		nowFn: time.Now,
	}
}

// AddShowSeats registers seats for a show, all FREE.  Mirrors the
// scheduler's materialization step.
func (l *MemoryLedger) AddShowSeats(showID uint64, seatIDs []uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, sid := range seatIDs {
		l.seats[seatKey{showID, sid}] = &memSeat{showID: showID, seatID: sid, status: "FREE"}
	}
}

// SeatStatus reports the current status of a seat, or "" if the seat
// is not registered for the show.
func (l *MemoryLedger) SeatStatus(showID, seatID uint64) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if s, ok := l.seats[seatKey{showID, seatID}]; ok {
		return s.status
	}
	return ""
}

// Hold implements Ledger.Hold.
func (l *MemoryLedger) Hold(ctx context.Context, showID uint64, seatIDs []uint64, bookingID uint64) error {
	ids := dedupeSorted(seatIDs)
	l.mu.Lock()
	defer l.mu.Unlock()

	var bad []uint64
	for _, sid := range ids {
		s, ok := l.seats[seatKey{showID, sid}]
		if !ok || s.status != "FREE" {
			bad = append(bad, sid)
		}
	}
	if len(ids) == 0 || len(bad) > 0 {
		return &SeatUnavailableError{ShowID: showID, SeatIDs: bad}
	}
	now := l.nowFn()
	for _, sid := range ids {
		s := l.seats[seatKey{showID, sid}]
		s.status = "HELD"
		s.bookingID = bookingID
		s.heldAt = now
	}
	return nil
}

// Confirm implements Ledger.Confirm.
func (l *MemoryLedger) Confirm(ctx context.Context, bookingID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var held []*memSeat
	for _, s := range l.seats {
		if s.bookingID == bookingID && (s.status == "HELD" || s.status == "BOOKED") {
			if s.status != "HELD" {
				return ErrInvalidState
			}
			held = append(held, s)
		}
	}
	if len(held) == 0 {
		return ErrInvalidState
	}
	for _, s := range held {
		s.status = "BOOKED"
	}
	return nil
}

// Release implements Ledger.Release.
func (l *MemoryLedger) Release(ctx context.Context, bookingID uint64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.seats {
		if s.bookingID == bookingID && s.status == "HELD" {
			s.status = "FREE"
			s.bookingID = 0
			s.heldAt = time.Time{}
		}
	}
	return nil
}

// ExpireStaleHolds implements Ledger.ExpireStaleHolds.
func (l *MemoryLedger) ExpireStaleHolds(ctx context.Context, now time.Time, holdTimeout time.Duration) ([]uint64, error) {
	cutoff := now.Add(-holdTimeout)
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[uint64]struct{})
	var bookingIDs []uint64
	for _, s := range l.seats {
		if s.status == "HELD" && !s.heldAt.After(cutoff) {
			if _, ok := seen[s.bookingID]; !ok {
				seen[s.bookingID] = struct{}{}
				bookingIDs = append(bookingIDs, s.bookingID)
			}
			s.status = "FREE"
			s.bookingID = 0
			s.heldAt = time.Time{}
		}
	}
	if bookingIDs == nil {
		bookingIDs = []uint64{}
	}
	return bookingIDs, nil
}
