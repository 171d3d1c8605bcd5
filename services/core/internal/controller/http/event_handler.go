package http

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"event-booking/pkg/logger"
	"event-booking/pkg/middleware"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxBannerSize = 5 << 20

var bannerExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true}

type EventHandler struct {
	eventUseCase usecase.EventUseCase
	logger       *logger.Logger
}

func NewEventHandler(eventUseCase usecase.EventUseCase, logger *logger.Logger) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
		logger:       logger,
	}
}

type CreateEventRequest struct {
	Title       string           `json:"title" binding:"required,max=255"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date" binding:"required"`
	Location    string           `json:"location" binding:"required,max=255"`
	SeatPrice   *decimal.Decimal `json:"seatPrice"`
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	Date        *time.Time `json:"date"`
	Location    *string    `json:"location" binding:"omitempty,min=1,max=255"`
}

type SetPriceRequest struct {
	SeatPrice *decimal.Decimal `json:"seatPrice" binding:"required"`
}

// CreateEvent godoc
// @Summary      Create an event
// @Description  Create an event organized by the caller. The organizer is emailed the details.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateEventRequest true "Event"
// @Success      201  {object}  entity.Event
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /events [post]
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}
	if req.SeatPrice != nil {
		input.SeatPrice = *req.SeatPrice
	}

	event, err := h.eventUseCase.CreateEvent(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

// GetEvent godoc
// @Summary      Get event by ID
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path string true "Event ID"
// @Success      200  {object}  entity.Event
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{eventId} [get]
func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	event, err := h.eventUseCase.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// GetOrganizerEvents godoc
// @Summary      List an organizer's events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        organizerId path string true "Organizer ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /events/organizer/{organizerId} [get]
func (h *EventHandler) GetOrganizerEvents(c *gin.Context) {
	organizerID := c.Param("organizerId")
	if _, err := uuid.Parse(organizerID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organizer id"})
		return
	}

	events, err := h.eventUseCase.ListByOrganizer(c.Request.Context(), organizerID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GetEventsByDay godoc
// @Summary      List events on a day
// @Tags         events
// @Produce      json
// @Param        day path string true "Day (YYYY-MM-DD)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /events/day/{day} [get]
func (h *EventHandler) GetEventsByDay(c *gin.Context) {
	day, err := time.Parse("2006-01-02", c.Param("day"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day must be formatted as YYYY-MM-DD"})
		return
	}

	events, err := h.eventUseCase.ListByDay(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// GetEventsByMonth godoc
// @Summary      List events in a month
// @Tags         events
// @Produce      json
// @Param        month path string true "Month (YYYY-MM)"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Router       /events/month/{month} [get]
func (h *EventHandler) GetEventsByMonth(c *gin.Context) {
	month, err := time.Parse("2006-01", c.Param("month"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "month must be formatted as YYYY-MM"})
		return
	}

	events, err := h.eventUseCase.ListByMonth(c.Request.Context(), month)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// UpdateEvent godoc
// @Summary      Update an event
// @Description  Only the organizer may update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path string true "Event ID"
// @Param        request body UpdateEventRequest true "Fields to change"
// @Success      200  {object}  entity.Event
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{eventId} [patch]
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update := entity.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Location:    req.Location,
	}

	event, err := h.eventUseCase.UpdateEvent(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), eventID, update)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// DeleteEvent godoc
// @Summary      Cancel an event
// @Description  Only the organizer may cancel an event. Its bookings are removed.
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path string true "Event ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /events/{eventId} [delete]
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	if err := h.eventUseCase.DeleteEvent(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), eventID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// SetSeatPrice godoc
// @Summary      Set or update the seat price
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path string true "Event ID"
// @Param        request body SetPriceRequest true "Seat price"
// @Success      200  {object}  entity.Event
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /events/{eventId}/price [patch]
func (h *EventHandler) SetSeatPrice(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	var req SetPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.eventUseCase.SetSeatPrice(c.Request.Context(), c.GetString(middleware.ContextUserID), c.GetString(middleware.ContextUserEmail), eventID, *req.SeatPrice)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// UploadBanner godoc
// @Summary      Upload an event banner
// @Tags         events
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        eventId path string true "Event ID"
// @Param        banner formData file true "Banner image"
// @Success      200  {object}  entity.Event
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /events/{eventId}/banner [post]
func (h *EventHandler) UploadBanner(c *gin.Context) {
	eventID, ok := eventIDParam(c)
	if !ok {
		return
	}

	file, err := c.FormFile("banner")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Banner file is required"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !bannerExtensions[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image format. Only jpg, jpeg, png, webp are allowed"})
		return
	}
	if file.Size > maxBannerSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Banner must be 5MB or smaller"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process file"})
		return
	}
	defer src.Close()

	contentType := file.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	event, err := h.eventUseCase.UploadBanner(c.Request.Context(), c.GetString(middleware.ContextUserID), eventID, src, file.Filename, contentType)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func eventIDParam(c *gin.Context) (string, bool) {
	eventID := c.Param("eventId")
	if _, err := uuid.Parse(eventID); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return "", false
	}
	return eventID, true
}
