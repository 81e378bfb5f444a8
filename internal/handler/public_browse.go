package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"cinebook/internal/repository"
)

// PublicHandler serves the unauthenticated browse surface: cinemas,
// halls, movies, shows and per-show seat availability. Guests use
// these endpoints to find watchable shows and free seats before
// authenticating to book.
type PublicHandler struct {
	Cinemas   *repository.CinemaRepo
	Halls     *repository.HallRepo
	Seats     *repository.SeatRepo
	Movies    *repository.MovieRepo
	Shows     *repository.ShowRepo
	ShowSeats *repository.ShowSeatRepo
}

// NewPublicHandler constructs a PublicHandler with the provided
// repositories. All dependencies must be non-nil.
func NewPublicHandler(cinemas *repository.CinemaRepo, halls *repository.HallRepo, seats *repository.SeatRepo, movies *repository.MovieRepo, shows *repository.ShowRepo, showSeats *repository.ShowSeatRepo) *PublicHandler {
	if cinemas == nil || halls == nil || seats == nil || movies == nil || shows == nil || showSeats == nil {
		panic("nil repository passed to NewPublicHandler")
	}
	return &PublicHandler{Cinemas: cinemas, Halls: halls, Seats: seats, Movies: movies, Shows: shows, ShowSeats: showSeats}
}

// ListCinemas handles GET /v1/cinemas.
func (h *PublicHandler) ListCinemas(c echo.Context) error {
	items, err := h.Cinemas.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load cinemas"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHalls handles GET /v1/cinemas/:id/halls.
func (h *PublicHandler) ListHalls(c echo.Context) error {
	cinemaID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Cinemas.GetByID(c.Request().Context(), cinemaID); err != nil {
		if errors.Is(err, repository.ErrCinemaNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "cinema not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Halls.ListByCinema(c.Request().Context(), cinemaID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load halls"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListMovies handles GET /v1/movies.
func (h *PublicHandler) ListMovies(c echo.Context) error {
	items, err := h.Movies.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListHallSeats handles GET /v1/halls/:id/seats and returns the
// hall's seat catalog ordered by seat number.
func (h *PublicHandler) ListHallSeats(c echo.Context) error {
	hallID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.Seats.ListByHall(c.Request().Context(), hallID)
	if err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListShows handles GET /v1/halls/:id/shows and returns the hall's
// non-cancelled shows ordered by start time.
func (h *PublicHandler) ListShows(c echo.Context) error {
	hallID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if _, err := h.Halls.GetByID(c.Request().Context(), hallID); err != nil {
		if errors.Is(err, repository.ErrHallNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	items, err := h.Shows.ListByHall(c.Request().Context(), hallID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load shows"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// ListShowSeats handles GET /v1/shows/:id/seats. Seat status is FREE,
// HELD or BOOKED so clients can render availability directly.
func (h *PublicHandler) ListShowSeats(c echo.Context) error {
	showID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	items, err := h.ShowSeats.ListByShow(c.Request().Context(), showID)
	if err != nil {
		if errors.Is(err, repository.ErrShowNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seats"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
