// Package booking orchestrates the booking lifecycle: hold seats,
// await payment, finalize or release.  The reservation ledger is the
// only coordination point; the workflow guarantees that no seat is
// left HELD after any confirm, cancel or failure path returns.
package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"cinebook/internal/ledger"
	"cinebook/internal/model"
	"cinebook/internal/payment"
	"cinebook/internal/queue"
	"cinebook/internal/repository"
)

// ErrNoSeatsRequested is returned when a booking request names no
// valid seats.
var ErrNoSeatsRequested = errors.New("no seats requested")

// ErrSeatNotInShow is returned when a requested seat does not belong
// to the show being booked.
var ErrSeatNotInShow = errors.New("seat does not belong to show")

// ErrPaymentFailed is returned when the payment collaborator declines
// the charge.  The booking is cancelled and its seats released before
// this error is surfaced.
var ErrPaymentFailed = errors.New("payment failed")

// BookingStore is the persistence the workflow needs for bookings.
// *repository.BookingRepo implements it; tests substitute fakes.
type BookingStore interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id uint64) (*model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
}

// PaymentStore persists payment outcomes. *repository.PaymentRepo
// implements it.
type PaymentStore interface {
	Create(ctx context.Context, p *model.Payment) error
	GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error)
}

// SeatPricer resolves show-seat prices and, implicitly, seat
// membership in a show. *repository.ShowSeatRepo implements it.
type SeatPricer interface {
	PricesForSeats(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error)
}

// Publisher emits domain events after state transitions. May be nil
// when no broker is configured; publishing failures never fail the
// booking operation.
type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
	PublishBookingExpired(ctx context.Context, ev queue.BookingExpiredEvent) error
}

// SeatNamer resolves the catalog seat numbers attached to a booking,
// used only to label confirmation events. Optional.
// *repository.ShowSeatRepo implements it.
type SeatNamer interface {
	SeatNumbersForBooking(ctx context.Context, bookingID uint64) ([]uint32, error)
}

// Workflow coordinates the ledger, the stores, the payment
// collaborator and the event publisher.
type Workflow struct {
	ledger      ledger.Ledger
	bookings    BookingStore
	payments    PaymentStore
	prices      SeatPricer
	charger     payment.Charger
	publisher   Publisher
	seatNames   SeatNamer
	holdTimeout time.Duration
}

// NewWorkflow constructs a Workflow. publisher and seatNames may be
// nil; every other dependency must be non-nil.
func NewWorkflow(lg ledger.Ledger, bookings BookingStore, payments PaymentStore, prices SeatPricer, charger payment.Charger, publisher Publisher, seatNames SeatNamer, holdTimeout time.Duration) *Workflow {
	if lg == nil || bookings == nil || payments == nil || prices == nil || charger == nil {
		panic("nil dependency passed to booking.NewWorkflow")
	}
	if holdTimeout <= 0 {
		holdTimeout = 10 * time.Minute
	}
	return &Workflow{
		ledger:      lg,
		bookings:    bookings,
		payments:    payments,
		prices:      prices,
		charger:     charger,
		publisher:   publisher,
		seatNames:   seatNames,
		holdTimeout: holdTimeout,
	}
}

// HoldTimeout returns the configured hold expiry duration.
func (w *Workflow) HoldTimeout() time.Duration { return w.holdTimeout }

// RequestBooking validates that every requested seat belongs to the
// show, holds the seats through the ledger and creates a PENDING
// booking carrying the total price.  On hold contention it returns
// *ledger.SeatUnavailableError and no seat state changes; the booking
// row created to tag the hold is cancelled.
func (w *Workflow) RequestBooking(ctx context.Context, userID, showID uint64, seatIDs []uint64) (*model.Booking, error) {
	unique := dedupe(seatIDs)
	if len(unique) == 0 {
		return nil, ErrNoSeatsRequested
	}

	prices, err := w.prices.PricesForSeats(ctx, showID, unique)
	if err != nil {
		return nil, fmt.Errorf("show %d: fetch seat prices: %w", showID, err)
	}
	var total uint32
	for _, sid := range unique {
		p, ok := prices[sid]
		if !ok {
			return nil, fmt.Errorf("show %d seat %d: %w", showID, sid, ErrSeatNotInShow)
		}
		total += p
	}

	// The booking row exists before the hold so the ledger can tag
	// the seats with its ID; a failed hold cancels it.
	b := &model.Booking{
		UserID:           userID,
		ShowID:           showID,
		SeatCount:        uint32(len(unique)),
		TotalAmountCents: total,
	}
	if err := w.bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("show %d: create booking: %w", showID, err)
	}

	if err := w.ledger.Hold(ctx, showID, unique, b.ID); err != nil {
		if cerr := w.bookings.UpdateStatus(ctx, b.ID, model.BookingPending, model.BookingCancelled); cerr != nil {
			log.Printf("booking: cancel booking %d after failed hold: %v", b.ID, cerr)
		}
		return nil, fmt.Errorf("booking %d: %w", b.ID, err)
	}
	return b, nil
}

// ConfirmPayment finalizes or rolls back a booking given the payment
// collaborator's result.  Success: seats become BOOKED, the payment
// is recorded, the booking CONFIRMED.  Failure: seats are released
// and the booking CANCELLED, surfaced as ErrPaymentFailed.  Duplicate
// calls whose intent matches the booking's terminal state are no-op
// successes returning the recorded outcome.  In every case no seat
// remains HELD by this booking when the call returns.
func (w *Workflow) ConfirmPayment(ctx context.Context, bookingID uint64, res payment.Result) (*model.Booking, error) {
	b, err := w.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		if (res.Success && b.Status == model.BookingConfirmed) ||
			(!res.Success && (b.Status == model.BookingCancelled || b.Status == model.BookingExpired)) {
			return b, nil // duplicate delivery, outcome already applied
		}
		return nil, fmt.Errorf("booking %d already %s: %w", b.ID, b.Status, ledger.ErrInvalidState)
	}

	if !res.Success {
		if err := w.ledger.Release(ctx, bookingID); err != nil {
			return nil, fmt.Errorf("booking %d: release after declined payment: %w", bookingID, err)
		}
		if err := w.bookings.UpdateStatus(ctx, bookingID, model.BookingPending, model.BookingCancelled); err != nil && !errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("booking %d: mark cancelled: %w", bookingID, err)
		}
		return nil, fmt.Errorf("booking %d: %s: %w", bookingID, res.Reason, ErrPaymentFailed)
	}

	// Seats first: the ledger commit makes the seats durably BOOKED
	// before the payment row exists. A crash between the two steps is
	// repaired by payment.Reconciler.
	if err := w.ledger.Confirm(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("booking %d: confirm seats: %w", bookingID, err)
	}

	pay := &model.Payment{
		BookingID:     bookingID,
		AmountCents:   b.TotalAmountCents - res.DiscountCents,
		DiscountCents: res.DiscountCents,
		Method:        res.Method,
		ExternalTrxID: res.ExternalTrxID,
	}
	if err := w.payments.Create(ctx, pay); err != nil && !errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("booking %d: record payment: %w", bookingID, err)
	}
	if err := w.bookings.UpdateStatus(ctx, bookingID, model.BookingPending, model.BookingConfirmed); err != nil && !errors.Is(err, repository.ErrConflict) {
		return nil, fmt.Errorf("booking %d: mark confirmed: %w", bookingID, err)
	}

	b, err = w.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	w.publishConfirmed(ctx, b, pay)
	return b, nil
}

// Checkout charges the booking's total through the payment
// collaborator and applies the result. A transport error from the
// charger leaves the booking PENDING so the caller can retry.
func (w *Workflow) Checkout(ctx context.Context, bookingID uint64, method string) (*model.Booking, error) {
	b, err := w.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingConfirmed {
		return b, nil
	}
	if b.Status != model.BookingPending {
		return nil, fmt.Errorf("booking %d already %s: %w", b.ID, b.Status, ledger.ErrInvalidState)
	}
	res, err := w.charger.Charge(ctx, b.TotalAmountCents, method)
	if err != nil {
		return nil, fmt.Errorf("booking %d: charge: %w", bookingID, err)
	}
	if res.Method == "" {
		res.Method = method
	}
	return w.ConfirmPayment(ctx, bookingID, res)
}

// CancelBooking releases a PENDING booking's seats and marks it
// CANCELLED. Cancelling an already cancelled booking is a no-op
// success; cancelling a CONFIRMED or EXPIRED one is an invalid
// state.
func (w *Workflow) CancelBooking(ctx context.Context, bookingID uint64) error {
	b, err := w.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	switch b.Status {
	case model.BookingCancelled:
		return nil
	case model.BookingPending:
		// proceed
	default:
		return fmt.Errorf("booking %d already %s: %w", b.ID, b.Status, ledger.ErrInvalidState)
	}
	if err := w.ledger.Release(ctx, bookingID); err != nil {
		return fmt.Errorf("booking %d: release: %w", bookingID, err)
	}
	if err := w.bookings.UpdateStatus(ctx, bookingID, model.BookingPending, model.BookingCancelled); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			// Lost a race with confirm or expiry; the seats are no
			// longer ours to release, nothing to undo.
			return fmt.Errorf("booking %d: %w", bookingID, ledger.ErrInvalidState)
		}
		return fmt.Errorf("booking %d: mark cancelled: %w", bookingID, err)
	}
	return nil
}

// ExpireStale releases every hold older than the configured timeout,
// marks the affected bookings EXPIRED and publishes an expiry event
// per booking. It returns the affected booking IDs.
func (w *Workflow) ExpireStale(ctx context.Context, now time.Time) ([]uint64, error) {
	ids, err := w.ledger.ExpireStaleHolds(ctx, now, w.holdTimeout)
	if err != nil {
		return nil, fmt.Errorf("expire stale holds: %w", err)
	}
	for _, id := range ids {
		if err := w.bookings.UpdateStatus(ctx, id, model.BookingPending, model.BookingExpired); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				continue // confirmed or cancelled concurrently
			}
			return ids, fmt.Errorf("booking %d: mark expired: %w", id, err)
		}
		if w.publisher != nil {
			ev := queue.BookingExpiredEvent{BookingID: id, ExpiredAt: now.UTC().Format(time.RFC3339)}
			if perr := w.publisher.PublishBookingExpired(ctx, ev); perr != nil {
				log.Printf("booking: publish expired event for booking %d: %v", id, perr)
			}
		}
	}
	return ids, nil
}

func (w *Workflow) publishConfirmed(ctx context.Context, b *model.Booking, pay *model.Payment) {
	if w.publisher == nil {
		return
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:        b.ID,
		UserID:           b.UserID,
		ShowID:           b.ShowID,
		TotalAmountCents: b.TotalAmountCents,
		ExternalTrxID:    pay.ExternalTrxID,
		ConfirmedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	if w.seatNames != nil {
		if nums, err := w.seatNames.SeatNumbersForBooking(ctx, b.ID); err == nil {
			ev.SeatNumbers = nums
		}
	}
	if err := w.publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Printf("booking: publish confirmed event for booking %d: %v", b.ID, err)
	}
}

// dedupe drops zero and duplicate seat IDs, preserving order.
func dedupe(ids []uint64) []uint64 {
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
	return out
}
