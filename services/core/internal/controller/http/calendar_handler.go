package http

import (
	"net/http"

	"event-booking/pkg/logger"
	"event-booking/pkg/middleware"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarUseCase usecase.CalendarUseCase
	logger          *logger.Logger
}

func NewCalendarHandler(calendarUseCase usecase.CalendarUseCase, logger *logger.Logger) *CalendarHandler {
	return &CalendarHandler{
		calendarUseCase: calendarUseCase,
		logger:          logger,
	}
}

// Connect godoc
// @Summary      Start Google Calendar authorization
// @Description  Returns the Google consent URL for the caller
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /calendar/connect [get]
func (h *CalendarHandler) Connect(c *gin.Context) {
	url, err := h.calendarUseCase.ConnectURL(c.Request.Context(), c.GetString(middleware.ContextUserID))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// Callback godoc
// @Summary      Google Calendar authorization callback
// @Tags         calendar
// @Produce      json
// @Param        state query string true "State issued by /calendar/connect"
// @Param        code query string true "Authorization code"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Router       /calendar/callback [get]
func (h *CalendarHandler) Callback(c *gin.Context) {
	if reason := c.Query("error"); reason != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "authorization denied: " + reason})
		return
	}

	state, code := c.Query("state"), c.Query("code")
	if state == "" || code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "state and code are required"})
		return
	}

	if err := h.calendarUseCase.HandleCallback(c.Request.Context(), state, code); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Google Calendar connected"})
}

// Disconnect godoc
// @Summary      Disconnect Google Calendar
// @Tags         calendar
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]string
// @Router       /calendar/connection [delete]
func (h *CalendarHandler) Disconnect(c *gin.Context) {
	if err := h.calendarUseCase.Disconnect(c.Request.Context(), c.GetString(middleware.ContextUserID)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Google Calendar disconnected"})
}
