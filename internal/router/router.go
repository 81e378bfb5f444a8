package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"cinebook/internal/handler"
	"cinebook/internal/middleware"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health
// check, used by load balancers and monitoring to verify the service
// is up.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterPublic registers the unauthenticated browse endpoints.
// Guests use these to find cinemas, shows and free seats before
// authenticating to book.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler) {
	e.GET("/v1/cinemas", p.ListCinemas)
	e.GET("/v1/cinemas/:id/halls", p.ListHalls)
	e.GET("/v1/movies", p.ListMovies)
	e.GET("/v1/halls/:id/seats", p.ListHallSeats)
	e.GET("/v1/halls/:id/shows", p.ListShows)
	// Seat status is FREE, HELD or BOOKED so clients can render
	// availability directly.
	e.GET("/v1/shows/:id/seats", p.ListShowSeats)
}

// RegisterCustomer registers the booking endpoints under /v1/bookings.
// All routes require a valid access token with the CUSTOMER role; the
// booking-creation route is additionally rate limited since it is the
// contention hot spot.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string, rl echo.MiddlewareFunc) {
	g := e.Group("/v1/bookings")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("CUSTOMER"))

	g.POST("", h.RequestBooking, rl)
	g.GET("", h.ListMyBookings)
	g.GET("/:id", h.GetBooking)
	g.POST("/:id/pay", h.Pay, rl)
	g.DELETE("/:id", h.Cancel)
}

// RegisterOwner registers the administrative endpoints under
// /v1/admin.  All routes require a valid access token with the OWNER
// role.
func RegisterOwner(e *echo.Echo, h *handler.OwnerHandler, jwtSecret string) {
	g := e.Group("/v1/admin")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("OWNER"))

	g.POST("/cinemas", h.CreateCinema)
	g.POST("/cinemas/:id/halls", h.CreateHall)
	g.POST("/halls/:id/seats", h.CreateSeats)
	g.POST("/movies", h.CreateMovie)
	g.POST("/shows", h.ScheduleShow)
}
