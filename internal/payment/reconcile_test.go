package payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/model"
	"cinebook/internal/repository"
)

type fakeBookingScanner struct {
	stuck  []model.Booking
	status map[uint64]model.BookingStatus
}

func (f *fakeBookingScanner) ListPendingWithBookedSeats(ctx context.Context) ([]model.Booking, error) {
	return f.stuck, nil
}

func (f *fakeBookingScanner) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	if f.status[id] != from {
		return repository.ErrConflict
	}
	f.status[id] = to
	return nil
}

type fakePaymentLookup struct {
	rows map[uint64]*model.Payment
}

func (f *fakePaymentLookup) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	if p, ok := f.rows[bookingID]; ok {
		return p, nil
	}
	return nil, repository.ErrPaymentNotFound
}

func TestReconcilerPromotesAndFlags(t *testing.T) {
	// Booking 1 crashed after its payment was recorded; booking 2
	// crashed before. The first is repaired, the second flagged.
	bookings := &fakeBookingScanner{
		stuck: []model.Booking{
			{ID: 1, Status: model.BookingPending},
			{ID: 2, Status: model.BookingPending},
		},
		status: map[uint64]model.BookingStatus{
			1: model.BookingPending,
			2: model.BookingPending,
		},
	}
	payments := &fakePaymentLookup{rows: map[uint64]*model.Payment{
		1: {BookingID: 1, AmountCents: 1500},
	}}

	repaired, flagged, err := NewReconciler(bookings, payments).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []uint64{1}, repaired)
	assert.Equal(t, []uint64{2}, flagged)
	assert.Equal(t, model.BookingConfirmed, bookings.status[1])
	assert.Equal(t, model.BookingPending, bookings.status[2])
}

func TestReconcilerSkipsConcurrentlyMovedBooking(t *testing.T) {
	bookings := &fakeBookingScanner{
		stuck:  []model.Booking{{ID: 1, Status: model.BookingPending}},
		status: map[uint64]model.BookingStatus{1: model.BookingConfirmed},
	}
	payments := &fakePaymentLookup{rows: map[uint64]*model.Payment{
		1: {BookingID: 1},
	}}

	repaired, flagged, err := NewReconciler(bookings, payments).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, repaired)
	assert.Empty(t, flagged)
}
