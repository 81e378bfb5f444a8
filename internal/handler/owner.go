package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"cinebook/internal/model"
	"cinebook/internal/repository"
	"cinebook/internal/scheduler"
)

// OwnerHandler covers the administrative surface: creating cinemas,
// halls, seat layouts and movies, and scheduling shows.
type OwnerHandler struct {
	Cinemas   *repository.CinemaRepo
	Halls     *repository.HallRepo
	Seats     *repository.SeatRepo
	Movies    *repository.MovieRepo
	Shows     *repository.ShowRepo
	Scheduler *scheduler.Service
}

// NewOwnerHandler constructs an OwnerHandler. All dependencies must be
// non-nil.
func NewOwnerHandler(cinemas *repository.CinemaRepo, halls *repository.HallRepo, seats *repository.SeatRepo, movies *repository.MovieRepo, shows *repository.ShowRepo, sched *scheduler.Service) *OwnerHandler {
	if cinemas == nil || halls == nil || seats == nil || movies == nil || shows == nil || sched == nil {
		panic("nil dependency passed to NewOwnerHandler")
	}
	return &OwnerHandler{Cinemas: cinemas, Halls: halls, Seats: seats, Movies: movies, Shows: shows, Scheduler: sched}
}

// CreateCinema handles POST /v1/admin/cinemas.
func (h *OwnerHandler) CreateCinema(c echo.Context) error {
	var body struct {
		Name string `json:"name"`
		City string `json:"city"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	cinema := &model.Cinema{Name: name, City: strings.TrimSpace(body.City)}
	if err := h.Cinemas.Create(c.Request().Context(), cinema); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "cinema name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create cinema"})
	}
	return c.JSON(http.StatusCreated, cinema)
}

// CreateHall handles POST /v1/admin/cinemas/:id/halls.
func (h *OwnerHandler) CreateHall(c echo.Context) error {
	cinemaID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Name string `json:"name"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if _, err := h.Cinemas.GetByID(c.Request().Context(), cinemaID); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hall := &model.Hall{CinemaID: cinemaID, Name: name}
	if err := h.Halls.Create(c.Request().Context(), hall); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall name already exists in this cinema"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create hall"})
	}
	return c.JSON(http.StatusCreated, hall)
}

// CreateSeats handles POST /v1/admin/halls/:id/seats and installs the
// hall's seat layout in bulk. Seat numbers must be unique within the
// hall; duplicates are rejected with 409.
func (h *OwnerHandler) CreateSeats(c echo.Context) error {
	hallID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Seats []struct {
			SeatNumber uint32 `json:"seat_number"`
			SeatType   string `json:"seat_type"`
		} `json:"seats"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(body.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seats is required"})
	}
	seats := make([]model.Seat, 0, len(body.Seats))
	for _, s := range body.Seats {
		if s.SeatNumber == 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number must be positive"})
		}
		st := model.SeatType(strings.ToUpper(strings.TrimSpace(s.SeatType)))
		if st == "" {
			st = model.SeatTypeSimple
		}
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat_type " + s.SeatType})
		}
		seats = append(seats, model.Seat{HallID: hallID, SeatNumber: s.SeatNumber, SeatType: st})
	}

	ctx := c.Request().Context()
	hall, err := h.Halls.GetByID(ctx, hallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Seats.CreateBulk(ctx, seats); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate seat number in hall"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create seats"})
	}
	if err := h.Halls.UpdateSeatTotal(ctx, hallID, hall.TotalSeats+uint32(len(seats))); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update hall seat total"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"created": len(seats)})
}

// CreateMovie handles POST /v1/admin/movies.
func (h *OwnerHandler) CreateMovie(c echo.Context) error {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		DurationMin uint32 `json:"duration_min"`
		ReleaseDate string `json:"release_date"`
		Language    string `json:"language"`
		Genre       string `json:"genre"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	title := strings.TrimSpace(body.Title)
	if title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
	}
	if body.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration_min must be positive"})
	}
	release, err := time.Parse("2006-01-02", body.ReleaseDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "release_date must be YYYY-MM-DD"})
	}
	movie := &model.Movie{
		Title:       title,
		Description: strings.TrimSpace(body.Description),
		DurationMin: body.DurationMin,
		ReleaseDate: release,
		Language:    strings.TrimSpace(body.Language),
		Genre:       strings.TrimSpace(body.Genre),
	}
	if err := h.Movies.Create(c.Request().Context(), movie); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
	}
	return c.JSON(http.StatusCreated, movie)
}

// ScheduleShow handles POST /v1/admin/shows. It books the hall for the
// requested interval and materializes one priced seat row per seat in
// the hall. Overlapping intervals in the same hall are rejected with
// 409.
func (h *OwnerHandler) ScheduleShow(c echo.Context) error {
	var body struct {
		MovieID        uint64 `json:"movie_id"`
		HallID         uint64 `json:"hall_id"`
		StartsAt       string `json:"starts_at"`
		EndsAt         string `json:"ends_at"`
		BasePriceCents uint32 `json:"base_price_cents"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.MovieID == 0 || body.HallID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie_id and hall_id are required"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be RFC3339"})
	}

	show, err := h.Scheduler.ScheduleShow(c.Request().Context(), body.MovieID, body.HallID, startsAt, endsAt, body.BasePriceCents)
	if err != nil {
		switch {
		case errors.Is(err, scheduler.ErrInvalidInterval):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ends_at must be after starts_at"})
		case errors.Is(err, scheduler.ErrNoSeats):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall has no seats"})
		case errors.Is(err, repository.ErrMovieNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall already has a show in this interval"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not schedule show"})
	}
	return c.JSON(http.StatusCreated, show)
}
