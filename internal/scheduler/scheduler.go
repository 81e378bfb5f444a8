// Package scheduler maps movies to time slots in halls.  Scheduling
// a show rejects overlapping intervals in the same hall and
// atomically materializes one FREE show seat per hall seat, priced
// by the pricing engine.
package scheduler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cinebook/internal/model"
	"cinebook/internal/pricing"
	"cinebook/internal/repository"
)

// ErrInvalidInterval is returned when ends_at is not after starts_at.
var ErrInvalidInterval = errors.New("ends_at must be after starts_at")

// ErrNoSeats is returned when the target hall has no seats
// configured, which would produce an unbookable show.
var ErrNoSeats = errors.New("hall has no seats configured")

// Service schedules shows.  It owns the transaction spanning the
// overlap check, the show insert and the show seat materialization.
type Service struct {
	db        *sql.DB
	movies    *repository.MovieRepo
	seats     *repository.SeatRepo
	shows     *repository.ShowRepo
	showSeats *repository.ShowSeatRepo
	pricer    *pricing.Engine
}

// NewService constructs a scheduler Service. All dependencies must be
// non-nil.
func NewService(db *sql.DB, movies *repository.MovieRepo, seats *repository.SeatRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo, pricer *pricing.Engine) *Service {
	if db == nil || movies == nil || seats == nil || shows == nil || showSeats == nil || pricer == nil {
		panic("nil dependency passed to scheduler.NewService")
	}
	return &Service{db: db, movies: movies, seats: seats, shows: shows, showSeats: showSeats, pricer: pricer}
}

// ScheduleShow creates a show for a movie in a hall over the
// half-open interval [startsAt, endsAt).  It returns
// repository.ErrConflict when the interval overlaps an existing
// SCHEDULED show in the same hall; intervals that only share a
// boundary do not conflict.  On success every hall seat has a FREE
// show seat row with its computed price, inserted in the same
// transaction as the show.
func (s *Service) ScheduleShow(ctx context.Context, movieID, hallID uint64, startsAt, endsAt time.Time, basePriceCents uint32) (*model.Show, error) {
	if !endsAt.After(startsAt) {
		return nil, ErrInvalidInterval
	}
	if _, err := s.movies.GetByID(ctx, movieID); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	// Serialize concurrent scheduling per hall: the hall row lock
	// makes the overlap check and the insert atomic.
	if err := s.shows.LockHallTx(ctx, tx, hallID); err != nil {
		return nil, err
	}
	existing, err := s.shows.ListScheduledByHallTx(ctx, tx, hallID)
	if err != nil {
		return nil, err
	}
	for _, other := range existing {
		if overlaps(startsAt, endsAt, other.StartsAt, other.EndsAt) {
			return nil, fmt.Errorf("hall %d: show overlaps show %d: %w", hallID, other.ID, repository.ErrConflict)
		}
	}

	show := &model.Show{
		MovieID:        movieID,
		HallID:         hallID,
		StartsAt:       startsAt.UTC(),
		EndsAt:         endsAt.UTC(),
		BasePriceCents: basePriceCents,
	}
	if err := s.shows.CreateTx(ctx, tx, show); err != nil {
		return nil, err
	}

	seats, err := s.seats.ListByHallTx(ctx, tx, hallID)
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, ErrNoSeats
	}
	if err := s.showSeats.CreateBulkTx(ctx, tx, materialize(show.ID, basePriceCents, seats, s.pricer)); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return show, nil
}

// overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect.  Touching boundaries do not overlap.
func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// materialize builds one FREE show seat per hall seat with the price
// computed from the show's base price and the seat type.
func materialize(showID uint64, basePriceCents uint32, seats []model.Seat, pricer *pricing.Engine) []model.ShowSeat {
	out := make([]model.ShowSeat, 0, len(seats))
	for _, seat := range seats {
		out = append(out, model.ShowSeat{
			ShowID:     showID,
			SeatID:     seat.ID,
			Status:     model.SeatFree,
			PriceCents: pricer.Price(basePriceCents, seat.SeatType),
		})
	}
	return out
}
