package payment

import (
	"context"
	"errors"
	"fmt"
	"log"

	"cinebook/internal/model"
	"cinebook/internal/repository"
)

// Reconciler repairs bookings caught between the two durable steps of
// confirmation.  Seat state is committed BOOKED before the payment
// row and the CONFIRMED status are written, so a crash in between
// leaves a PENDING booking with BOOKED seats.  A payment row present
// means the confirmation finished charging: the booking is promoted
// to CONFIRMED.  No payment row means the outcome of the charge is
// unknown: the booking is flagged for manual review.
type Reconciler struct {
	bookings BookingScanner
	payments PaymentLookup
}

// BookingScanner is the booking persistence the reconciler needs.
// *repository.BookingRepo implements it.
type BookingScanner interface {
	ListPendingWithBookedSeats(ctx context.Context) ([]model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error
}

// PaymentLookup resolves the payment recorded for a booking, if any.
// *repository.PaymentRepo implements it.
type PaymentLookup interface {
	GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error)
}

// NewReconciler constructs a Reconciler over the given stores.
func NewReconciler(bookings BookingScanner, payments PaymentLookup) *Reconciler {
	if bookings == nil || payments == nil {
		panic("nil repository passed to payment.NewReconciler")
	}
	return &Reconciler{bookings: bookings, payments: payments}
}

// Run performs one reconciliation pass.  It returns the booking IDs
// it repaired and the ones it flagged for manual review.
func (r *Reconciler) Run(ctx context.Context) (repaired, flagged []uint64, err error) {
	stuck, err := r.bookings.ListPendingWithBookedSeats(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("reconcile: list stuck bookings: %w", err)
	}
	for _, b := range stuck {
		_, perr := r.payments.GetByBooking(ctx, b.ID)
		switch {
		case perr == nil:
			if uerr := r.bookings.UpdateStatus(ctx, b.ID, model.BookingPending, model.BookingConfirmed); uerr != nil {
				if errors.Is(uerr, repository.ErrConflict) {
					continue // status moved on concurrently, nothing to repair
				}
				return repaired, flagged, fmt.Errorf("reconcile: booking %d: %w", b.ID, uerr)
			}
			log.Printf("reconciler: booking %d promoted to CONFIRMED (payment already recorded)", b.ID)
			repaired = append(repaired, b.ID)
		case errors.Is(perr, repository.ErrPaymentNotFound):
			log.Printf("reconciler: booking %d has BOOKED seats but no payment row; flagged for manual review", b.ID)
			flagged = append(flagged, b.ID)
		default:
			return repaired, flagged, fmt.Errorf("reconcile: booking %d: %w", b.ID, perr)
		}
	}
	return repaired, flagged, nil
}
