package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/ledger"
	"cinebook/internal/model"
	"cinebook/internal/payment"
	"cinebook/internal/queue"
	"cinebook/internal/repository"
)

// fakeBookingStore mimics BookingRepo's guarded status transition.
type fakeBookingStore struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]*model.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{rows: make(map[uint64]*model.Booking)}
}

func (s *fakeBookingStore) Create(ctx context.Context, b *model.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	b.ID = s.nextID
	b.Status = model.BookingPending
	cp := *b
	s.rows[b.ID] = &cp
	return nil
}

func (s *fakeBookingStore) GetByID(ctx context.Context, id uint64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *fakeBookingStore) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok || b.Status != from {
		return repository.ErrConflict
	}
	b.Status = to
	return nil
}

type fakePaymentStore struct {
	mu   sync.Mutex
	rows map[uint64]*model.Payment
}

func newFakePaymentStore() *fakePaymentStore {
	return &fakePaymentStore{rows: make(map[uint64]*model.Payment)}
}

func (s *fakePaymentStore) Create(ctx context.Context, p *model.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[p.BookingID]; ok {
		return repository.ErrConflict
	}
	cp := *p
	s.rows[p.BookingID] = &cp
	return nil
}

func (s *fakePaymentStore) GetByBooking(ctx context.Context, bookingID uint64) (*model.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.rows[bookingID]
	if !ok {
		return nil, repository.ErrPaymentNotFound
	}
	cp := *p
	return &cp, nil
}

// fakePricer prices every registered seat; membership failures mirror
// ShowSeatRepo returning a partial map.
type fakePricer struct {
	prices map[uint64]uint32
}

func (f *fakePricer) PricesForSeats(ctx context.Context, showID uint64, seatIDs []uint64) (map[uint64]uint32, error) {
	out := make(map[uint64]uint32)
	for _, sid := range seatIDs {
		if p, ok := f.prices[sid]; ok {
			out[sid] = p
		}
	}
	return out, nil
}

type fakeCharger struct {
	res Result
	err error
}

type Result = payment.Result

func (f *fakeCharger) Charge(ctx context.Context, amountCents uint32, method string) (Result, error) {
	return f.res, f.err
}

type capturingPublisher struct {
	mu        sync.Mutex
	confirmed []queue.BookingConfirmedEvent
	expired   []queue.BookingExpiredEvent
}

func (p *capturingPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.confirmed = append(p.confirmed, ev)
	return nil
}

func (p *capturingPublisher) PublishBookingExpired(ctx context.Context, ev queue.BookingExpiredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.expired = append(p.expired, ev)
	return nil
}

type fixture struct {
	wf        *Workflow
	ledger    *ledger.MemoryLedger
	bookings  *fakeBookingStore
	payments  *fakePaymentStore
	publisher *capturingPublisher
}

// newFixture wires a workflow over a show with three seats priced
// 1000, 1500 and 1500 cents.
func newFixture(t *testing.T, charger payment.Charger) *fixture {
	t.Helper()
	lg := ledger.NewMemoryLedger()
	lg.AddShowSeats(1, []uint64{1, 2, 3})
	f := &fixture{
		ledger:    lg,
		bookings:  newFakeBookingStore(),
		payments:  newFakePaymentStore(),
		publisher: &capturingPublisher{},
	}
	pricer := &fakePricer{prices: map[uint64]uint32{1: 1000, 2: 1500, 3: 1500}}
	f.wf = NewWorkflow(lg, f.bookings, f.payments, pricer, charger, f.publisher, nil, 10*time.Minute)
	return f
}

func TestRequestBookingHoldsSeatsAndTotalsPrice(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})

	b, err := f.wf.RequestBooking(context.Background(), 7, 1, []uint64{1, 2})
	require.NoError(t, err)

	assert.Equal(t, model.BookingPending, b.Status)
	assert.Equal(t, uint32(2), b.SeatCount)
	assert.Equal(t, uint32(2500), b.TotalAmountCents)
	assert.Equal(t, "HELD", f.ledger.SeatStatus(1, 1))
	assert.Equal(t, "HELD", f.ledger.SeatStatus(1, 2))
}

func TestRequestBookingContention(t *testing.T) {
	// A asks for seats 1,2 and B for 2,3. Exactly one wins; the loser
	// gets the unavailable seat back and its booking is cancelled.
	f := newFixture(t, payment.SimulatedCharger{})
	ctx := context.Background()

	a, errA := f.wf.RequestBooking(ctx, 7, 1, []uint64{1, 2})
	_, errB := f.wf.RequestBooking(ctx, 8, 1, []uint64{2, 3})

	require.NoError(t, errA)
	var unavail *ledger.SeatUnavailableError
	require.ErrorAs(t, errB, &unavail)
	assert.Equal(t, []uint64{2}, unavail.SeatIDs)

	assert.Equal(t, "HELD", f.ledger.SeatStatus(1, 1))
	assert.Equal(t, "HELD", f.ledger.SeatStatus(1, 2))
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 3))

	// The loser's booking row was created to tag the hold, then
	// cancelled when the hold failed.
	loser, err := f.bookings.GetByID(ctx, a.ID+1)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, loser.Status)
}

func TestRequestBookingRejectsForeignSeat(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})

	_, err := f.wf.RequestBooking(context.Background(), 7, 1, []uint64{1, 99})
	assert.ErrorIs(t, err, ErrSeatNotInShow)
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 1))
}

func TestRequestBookingRejectsEmpty(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})

	_, err := f.wf.RequestBooking(context.Background(), 7, 1, []uint64{0})
	assert.ErrorIs(t, err, ErrNoSeatsRequested)
}

func TestCheckoutConfirmsBooking(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1, 2})
	require.NoError(t, err)

	confirmed, err := f.wf.Checkout(ctx, b.ID, "CARD")
	require.NoError(t, err)

	assert.Equal(t, model.BookingConfirmed, confirmed.Status)
	assert.Equal(t, "BOOKED", f.ledger.SeatStatus(1, 1))
	assert.Equal(t, "BOOKED", f.ledger.SeatStatus(1, 2))

	pay, err := f.payments.GetByBooking(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(2500), pay.AmountCents)
	assert.Equal(t, "CARD", pay.Method)
	assert.NotEmpty(t, pay.ExternalTrxID)

	require.Len(t, f.publisher.confirmed, 1)
	assert.Equal(t, b.ID, f.publisher.confirmed[0].BookingID)
}

func TestCheckoutDeclineCancelsAndReleases(t *testing.T) {
	f := newFixture(t, &fakeCharger{res: Result{Success: false, Reason: "insufficient funds"}})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1})
	require.NoError(t, err)

	_, err = f.wf.Checkout(ctx, b.ID, "CARD")
	assert.ErrorIs(t, err, ErrPaymentFailed)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingCancelled, got.Status)
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 1))
	assert.Empty(t, f.publisher.confirmed)
}

func TestCheckoutTransportErrorLeavesPending(t *testing.T) {
	f := newFixture(t, &fakeCharger{err: errors.New("gateway timeout")})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1})
	require.NoError(t, err)

	_, err = f.wf.Checkout(ctx, b.ID, "CARD")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrPaymentFailed)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingPending, got.Status)
	assert.Equal(t, "HELD", f.ledger.SeatStatus(1, 1))
}

func TestConfirmPaymentDuplicateIsNoop(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1})
	require.NoError(t, err)

	res := Result{Success: true, ExternalTrxID: "trx-1", Method: "CARD"}
	first, err := f.wf.ConfirmPayment(ctx, b.ID, res)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, first.Status)

	// Duplicate delivery with the same intent returns the recorded
	// outcome without touching seats or publishing again.
	second, err := f.wf.ConfirmPayment(ctx, b.ID, res)
	require.NoError(t, err)
	assert.Equal(t, model.BookingConfirmed, second.Status)
	assert.Len(t, f.publisher.confirmed, 1)

	// A conflicting intent on a terminal booking is an invalid state.
	_, err = f.wf.ConfirmPayment(ctx, b.ID, Result{Success: false, Reason: "late decline"})
	assert.ErrorIs(t, err, ledger.ErrInvalidState)
}

func TestCancelBooking(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1, 2})
	require.NoError(t, err)

	require.NoError(t, f.wf.CancelBooking(ctx, b.ID))
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 1))
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 2))

	// Cancelling again is a no-op success.
	require.NoError(t, f.wf.CancelBooking(ctx, b.ID))

	// A confirmed booking cannot be cancelled.
	b2, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{3})
	require.NoError(t, err)
	_, err = f.wf.Checkout(ctx, b2.ID, "CARD")
	require.NoError(t, err)
	assert.ErrorIs(t, f.wf.CancelBooking(ctx, b2.ID), ledger.ErrInvalidState)
	assert.Equal(t, "BOOKED", f.ledger.SeatStatus(1, 3))
}

func TestExpireStaleReleasesAndMarksExpired(t *testing.T) {
	f := newFixture(t, payment.SimulatedCharger{})
	ctx := context.Background()

	b, err := f.wf.RequestBooking(ctx, 7, 1, []uint64{1, 2})
	require.NoError(t, err)

	// Within the timeout nothing expires.
	ids, err := f.wf.ExpireStale(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = f.wf.ExpireStale(ctx, time.Now().UTC().Add(11*time.Minute))
	require.NoError(t, err)
	require.Equal(t, []uint64{b.ID}, ids)

	got, err := f.bookings.GetByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, model.BookingExpired, got.Status)
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 1))
	assert.Equal(t, "FREE", f.ledger.SeatStatus(1, 2))

	require.Len(t, f.publisher.expired, 1)
	assert.Equal(t, b.ID, f.publisher.expired[0].BookingID)
}
