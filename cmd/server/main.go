package main // Entry point package

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
	"cinebook/internal/config"
	"cinebook/internal/database"
	"cinebook/internal/handler"
	"cinebook/internal/ledger"
	"cinebook/internal/middleware"
	"cinebook/internal/model"
	"cinebook/internal/payment"
	"cinebook/internal/pricing"
	"cinebook/internal/queue"
	"cinebook/internal/repository"
	"cinebook/internal/router"
	"cinebook/internal/scheduler"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	cinemas := repository.NewCinemaRepo(db)
	halls := repository.NewHallRepo(db)
	seats := repository.NewSeatRepo(db)
	movies := repository.NewMovieRepo(db)
	shows := repository.NewShowRepo(db)
	showSeats := repository.NewShowSeatRepo(db)
	bookings := repository.NewBookingRepo(db)
	payments := repository.NewPaymentRepo(db)

	pricer := pricing.NewEngine(map[model.SeatType]uint32{
		model.SeatTypeSimple:   0,
		model.SeatTypeVIP:      cfg.PremiumVIPPct,
		model.SeatTypeSuperVIP: cfg.PremiumSuperVIPPct,
	})
	sched := scheduler.NewService(db, movies, seats, shows, showSeats, pricer)

	lg := ledger.NewSQLLedger(db)
	publisher := queue.NewPublisher()
	wf := booking.NewWorkflow(lg, bookings, payments, showSeats, payment.SimulatedCharger{}, publisher, showSeats, cfg.HoldTimeout)

	ctx := context.Background()

	// Repair bookings left half-finalized by a crash between the seat
	// commit and the payment record.
	if repaired, flagged, err := payment.NewReconciler(bookings, payments).Run(ctx); err != nil {
		log.Printf("reconcile: %v", err)
	} else if len(repaired)+len(flagged) > 0 {
		log.Printf("reconcile: repaired=%v flagged=%v", repaired, flagged)
	}

	sweeper := booking.NewSweeper(wf, cfg.SweepInterval)
	go sweeper.Run(ctx)

	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("queue: consumer stopped: %v", err)
		}
	}()

	rdb := config.NewRedisClient() // nil when Redis is unreachable; limiter fails open
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterPublic(e, handler.NewPublicHandler(cinemas, halls, seats, movies, shows, showSeats))
	router.RegisterCustomer(e, handler.NewCustomerHandler(wf, bookings, payments), cfg.JWTSecret, rl)
	router.RegisterOwner(e, handler.NewOwnerHandler(cinemas, halls, seats, movies, shows, sched), cfg.JWTSecret)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
