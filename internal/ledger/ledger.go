// Package ledger is the reservation ledger: the single coordination
// point for seat state.  It tracks, per show, which seats are FREE,
// HELD or BOOKED and enforces at most one holder per seat under
// concurrent callers.  All transitions go through the state machine
// FREE→HELD→BOOKED, HELD→FREE; BOOKED is terminal for the show.
//
// Two implementations exist: SQLLedger, the production ledger backed
// by MySQL row locks, and MemoryLedger, a mutex-guarded ledger used
// by tests and the dev backend.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrInvalidState is returned when a transition's guard fails: for
// example confirming a booking whose seats are no longer HELD.  The
// loser of a confirm/cancel/expire race observes this and must
// no-op rather than force the transition.
var ErrInvalidState = errors.New("invalid seat state")

// SeatUnavailableError reports a failed hold: at least one requested
// seat was not FREE (or does not exist for the show).  The hold is
// all-or-nothing, so no seat state changed.
type SeatUnavailableError struct {
	ShowID  uint64
	SeatIDs []uint64 // the offending seats, ascending
}

func (e *SeatUnavailableError) Error() string {
	return fmt.Sprintf("show %d: seats unavailable: %v", e.ShowID, e.SeatIDs)
}

// Ledger is the contract shared by the SQL and in-memory ledgers.
type Ledger interface {
	// Hold atomically transitions every listed seat of the show from
	// FREE to HELD for the booking.  All-or-nothing and fast-fail: if
	// any seat is not FREE it returns *SeatUnavailableError and no
	// seat changes state.  Seats are locked in ascending seat-id
	// order system-wide to prevent circular waits.
	Hold(ctx context.Context, showID uint64, seatIDs []uint64, bookingID uint64) error

	// Confirm transitions all HELD seats owned by the booking to
	// BOOKED.  ErrInvalidState if the booking holds no seats or any
	// of them is not HELD.
	Confirm(ctx context.Context, bookingID uint64) error

	// Release transitions the booking's HELD seats back to FREE.
	// Idempotent: releasing a booking that holds nothing is a no-op
	// success.  BOOKED seats are never released.
	Release(ctx context.Context, bookingID uint64) error

	// ExpireStaleHolds releases every HELD seat whose hold is older
	// than holdTimeout at the given instant and returns the distinct
	// booking IDs affected, for downstream notification.
	ExpireStaleHolds(ctx context.Context, now time.Time, holdTimeout time.Duration) ([]uint64, error)
}
