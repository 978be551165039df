package booking

import (
	"errors"
	"net/http"
	"strconv"

	"theroom/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// BookClass godoc
// @Summary      Book a class
// @Description  Reserves a spot in a scheduled class, consuming one credit for non-unlimited memberships. A repeated attempt returns an already-booked outcome, not an error.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        scheduleID  path      int  true  "Schedule entry ID"
// @Success      200         {object}  BookResult
// @Success      201         {object}  BookResult
// @Failure      400         {object}  gin.H
// @Failure      404         {object}  gin.H
// @Failure      409         {object}  gin.H
// @Failure      500         {object}  gin.H
// @Router       /schedule/{scheduleID}/book [post]
func (h *Handler) BookClass(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	scheduleID, err := strconv.Atoi(c.Param("scheduleID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid schedule entry ID"})
		return
	}

	result, err := h.service.BookClass(c.Request.Context(), userID, scheduleID)
	if err != nil {
		switch {
		case errors.Is(err, ErrScheduleNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Schedule entry not found"})
		case errors.Is(err, ErrClassInPast):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot book a class that has already started"})
		case errors.Is(err, ErrClassFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Class is full"})
		case errors.Is(err, ErrNoCredits):
			c.JSON(http.StatusConflict, gin.H{"error": "No credits remaining. Please purchase a membership or class pack."})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to book class"})
		}
		return
	}

	if result.AlreadyBooked {
		c.JSON(http.StatusOK, gin.H{
			"already_booked": true,
			"message":        "You have already booked this class.",
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Description  Cancels the caller's confirmed booking and refunds the consumed credit.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  CancelBookingResponse
// @Failure      400        {object}  gin.H
// @Failure      403        {object}  gin.H
// @Failure      404        {object}  gin.H
// @Failure      500        {object}  gin.H
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	bookingID, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	err = h.service.CancelBooking(c.Request.Context(), userID, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found or already cancelled"})
		case errors.Is(err, ErrNotOwner):
			c.JSON(http.StatusForbidden, gin.H{"error": "You can only cancel your own bookings"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		}
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{Message: "Booking cancelled successfully"})
}

// ListMyBookings godoc
// @Summary      Booking history
// @Description  Most recent bookings of the authenticated member, newest first.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      500  {object}  gin.H
// @Router       /bookings [get]
func (h *Handler) ListMyBookings(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	bookings, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// GetOverview godoc
// @Summary      Member home overview
// @Description  Next upcoming confirmed class, completed-class count and remaining credits.
// @Tags         user
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  Overview
// @Failure      500  {object}  gin.H
// @Router       /me/overview [get]
func (h *Handler) GetOverview(c *gin.Context) {
	userID, exists := auth.GetUserID(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Please sign in"})
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load overview"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// ListRecentBookings godoc
// @Summary      Recent bookings
// @Description  Most recent bookings across all members with user and class details. Admin only.
// @Tags         admin
// @Security     BearerAuth
// @Produce      json
// @Success      200  {array}   BookingWithDetails
// @Failure      500  {object}  gin.H
// @Router       /admin/bookings [get]
func (h *Handler) ListRecentBookings(c *gin.Context) {
	bookings, err := h.service.RecentBookings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}
