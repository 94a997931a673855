package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/srihari2761/pickleball-platform/internal/auth"
	"github.com/srihari2761/pickleball-platform/internal/schedule"
)

type Handler struct {
	ledger *Ledger
}

func NewHandler(ledger *Ledger) *Handler {
	return &Handler{ledger: ledger}
}

// CreateBooking godoc
// @Summary      Reserve a court
// @Description  Creates a confirmed booking for the interval, or rejects it with the conflicting bookings.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking interval"
// @Success      201      {object}  Booking
// @Failure      400      {object}  gin.H
// @Failure      404      {object}  gin.H
// @Failure      409      {object}  gin.H
// @Failure      500      {object}  gin.H
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	playerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_time, use RFC3339"})
		return
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_time, use RFC3339"})
		return
	}

	iv, err := schedule.NewInterval(start, end)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "start_time must be before end_time"})
		return
	}

	booking, err := h.ledger.Reserve(c.Request.Context(), req.CourtID, playerID, iv)
	if err != nil {
		var conflict *ConflictError
		switch {
		case errors.As(err, &conflict):
			c.JSON(http.StatusConflict, gin.H{
				"error":     "Time slot already booked",
				"conflicts": conflict.Conflicts,
			})
		case errors.Is(err, ErrPastStart):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book a slot in the past"})
		case errors.Is(err, ErrUnknownCourt):
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Cancels an existing booking of the current user and frees its interval.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  CancelBookingResponse
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      409        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	playerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	booking, err := h.ledger.Cancel(c.Request.Context(), bookingID, playerID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		case errors.Is(err, ErrAlreadyCancelled):
			c.JSON(http.StatusConflict, gin.H{"error": "Booking already cancelled"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{
		Message: "Booking cancelled successfully",
		Booking: booking,
	})
}

// PreviewAvailability godoc
// @Summary      Preview availability
// @Description  Lists candidate start times for a court on a day, marked available or taken.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        courtID   path      int     true   "Court ID"
// @Param        date      query     string  true   "Day (YYYY-MM-DD)"
// @Param        duration  query     int     false  "Duration in minutes (30, 60, 90, 120)"
// @Success      200       {object}  map[string]interface{}
// @Failure      400       {object}  gin.H
// @Failure      404       {object}  gin.H
// @Router       /courts/{courtID}/availability [get]
func (h *Handler) PreviewAvailability(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date query param is required"})
		return
	}
	day, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date, use YYYY-MM-DD"})
		return
	}

	duration := 60
	if durStr := c.Query("duration"); durStr != "" {
		duration, err = strconv.Atoi(durStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration"})
			return
		}
	}

	slots, err := h.ledger.PreviewDay(c.Request.Context(), courtID, day, duration)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCourt):
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
		case errors.Is(err, schedule.ErrInvalidDuration):
			c.JSON(http.StatusBadRequest, gin.H{"error": "duration must be 30, 60, 90 or 120"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to enumerate slots"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"court_id": courtID,
		"date":     dateStr,
		"duration": duration,
		"slots":    slots,
	})
}

// ListMyBookings godoc
// @Summary      List my bookings
// @Description  Returns bookings of the authenticated player.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithCourt
// @Failure      500  {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	playerID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bookings, err := h.ledger.PlayerBookings(c.Request.Context(), playerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// ListCourtBookings godoc
// @Summary      List bookings for a court
// @Description  Returns bookings for a court, optionally bounded by a date window.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        courtID     path      int     true   "Court ID"
// @Param        start_date  query     string  false  "Window start (RFC3339)"
// @Param        end_date    query     string  false  "Window end (RFC3339)"
// @Success      200         {array}   Booking
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Router       /courts/{courtID}/bookings [get]
func (h *Handler) ListCourtBookings(c *gin.Context) {
	courtID, err := strconv.Atoi(c.Param("courtID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid court ID"})
		return
	}

	var from, to *time.Time
	if s := c.Query("start_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, use RFC3339"})
			return
		}
		from = &t
	}
	if s := c.Query("end_date"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, use RFC3339"})
			return
		}
		to = &t
	}

	bookings, err := h.ledger.CourtBookings(c.Request.Context(), courtID, from, to)
	if err != nil {
		if errors.Is(err, ErrUnknownCourt) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Court not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
