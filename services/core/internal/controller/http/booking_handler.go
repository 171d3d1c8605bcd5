package http

import (
	"net/http"

	"event-booking/pkg/logger"
	"event-booking/pkg/middleware"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingUseCase usecase.BookingUseCase
	logger         *logger.Logger
}

func NewBookingHandler(bookingUseCase usecase.BookingUseCase, logger *logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUseCase: bookingUseCase,
		logger:         logger,
	}
}

type BookFreeEventRequest struct {
	EventID string `json:"eventId" binding:"required,uuid"`
}

type BookPaidEventRequest struct {
	EventID   string `json:"eventId" binding:"required,uuid"`
	PaymentID string `json:"paymentId" binding:"required,max=255"`
}

// BookFreeEvent godoc
// @Summary      Book a seat at a free event
// @Description  Books the caller onto a free event and emails the booking details
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BookFreeEventRequest true "Event"
// @Success      201  {object}  entity.Booking
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /bookings/free [post]
func (h *BookingHandler) BookFreeEvent(c *gin.Context) {
	var req BookFreeEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingUseCase.BookFreeEvent(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), req.EventID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// BookPaidEvent godoc
// @Summary      Book a seat at a paid event
// @Description  Records a booking against a payment that was settled by the payment provider
// @Tags         bookings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body BookPaidEventRequest true "Event and payment"
// @Success      201  {object}  entity.Booking
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /bookings/paid [post]
func (h *BookingHandler) BookPaidEvent(c *gin.Context) {
	var req BookPaidEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingUseCase.BookPaidEvent(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), req.EventID, req.PaymentID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// CancelBooking godoc
// @Summary      Cancel a booking
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Param        bookingId path string true "Booking ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /bookings/{bookingId} [delete]
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	bookingID := c.Param("bookingId")
	if _, err := uuid.Parse(bookingID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	if err := h.bookingUseCase.CancelBooking(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), bookingID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking canceled"})
}

// GetMyBookings godoc
// @Summary      List the caller's bookings
// @Tags         bookings
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /bookings/me [get]
func (h *BookingHandler) GetMyBookings(c *gin.Context) {
	bookings, err := h.bookingUseCase.ListBookings(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings, "count": len(bookings)})
}
