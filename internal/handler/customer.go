package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"cinebook/internal/booking"
	"cinebook/internal/ledger"
	"cinebook/internal/model"
	"cinebook/internal/repository"
)

// CustomerHandler covers the authenticated booking surface: requesting
// seats, paying, cancelling and reviewing bookings.
type CustomerHandler struct {
	Workflow *booking.Workflow
	Bookings *repository.BookingRepo
	Payments *repository.PaymentRepo
}

// NewCustomerHandler constructs a CustomerHandler. All dependencies
// must be non-nil.
func NewCustomerHandler(wf *booking.Workflow, bookings *repository.BookingRepo, payments *repository.PaymentRepo) *CustomerHandler {
	if wf == nil || bookings == nil || payments == nil {
		panic("nil dependency passed to NewCustomerHandler")
	}
	return &CustomerHandler{Workflow: wf, Bookings: bookings, Payments: payments}
}

// RequestBooking handles POST /v1/bookings. The request either holds
// every listed seat or none of them; contention on any seat yields 409
// with the unavailable seat IDs.
func (h *CustomerHandler) RequestBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		ShowID  uint64   `json:"show_id"`
		SeatIDs []uint64 `json:"seat_ids"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.ShowID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "show_id is required"})
	}

	b, err := h.Workflow.RequestBooking(c.Request().Context(), userID, body.ShowID, body.SeatIDs)
	if err != nil {
		var unavail *ledger.SeatUnavailableError
		switch {
		case errors.As(err, &unavail):
			return c.JSON(http.StatusConflict, echo.Map{
				"error":           "seats unavailable",
				"unavailable_ids": unavail.SeatIDs,
			})
		case errors.Is(err, booking.ErrNoSeatsRequested):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_ids is required"})
		case errors.Is(err, booking.ErrSeatNotInShow):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "one or more seats do not belong to this show"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create booking"})
	}
	return c.JSON(http.StatusCreated, b)
}

// Pay handles POST /v1/bookings/:id/pay. It charges the booking total
// and, on success, finalizes the booking. A declined charge cancels
// the booking and frees its seats.
func (h *CustomerHandler) Pay(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var body struct {
		Method string `json:"method"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	method := strings.TrimSpace(body.Method)
	if method == "" {
		method = "CARD"
	}

	ctx := c.Request().Context()
	if _, ok := h.ownedBooking(c, bookingID, userID); !ok {
		return nil
	}

	b, err := h.Workflow.Checkout(ctx, bookingID, method)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrPaymentFailed):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment declined"})
		case errors.Is(err, ledger.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking is not payable"})
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not process payment"})
	}
	return c.JSON(http.StatusOK, b)
}

// Cancel handles DELETE /v1/bookings/:id. Cancelling an already
// cancelled booking succeeds; a confirmed or expired one yields 409.
func (h *CustomerHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if _, ok := h.ownedBooking(c, bookingID, userID); !ok {
		return nil
	}

	if err := h.Workflow.CancelBooking(c.Request().Context(), bookingID); err != nil {
		switch {
		case errors.Is(err, ledger.ErrInvalidState):
			return c.JSON(http.StatusConflict, echo.Map{"error": "booking cannot be cancelled"})
		case errors.Is(err, repository.ErrBookingNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not cancel booking"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "CANCELLED"})
}

// ListMyBookings handles GET /v1/bookings.
func (h *CustomerHandler) ListMyBookings(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Bookings.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load bookings"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetBooking handles GET /v1/bookings/:id and returns the booking with
// its payment record when one exists.
func (h *CustomerHandler) GetBooking(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	bookingID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	b, ok := h.ownedBooking(c, bookingID, userID)
	if !ok {
		return nil
	}

	resp := echo.Map{"booking": b}
	if pay, err := h.Payments.GetByBooking(c.Request().Context(), bookingID); err == nil {
		resp["payment"] = pay
	} else if !errors.Is(err, repository.ErrPaymentNotFound) {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, resp)
}

// ownedBooking loads the booking and verifies it belongs to userID.
// When it returns false the error response has already been written; a
// foreign booking reads as not found so IDs do not leak across users.
func (h *CustomerHandler) ownedBooking(c echo.Context, bookingID, userID uint64) (*model.Booking, bool) {
	b, err := h.Bookings.GetByID(c.Request().Context(), bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			_ = c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		} else {
			_ = c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		return nil, false
	}
	if b.UserID != userID {
		_ = c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		return nil, false
	}
	return b, true
}
