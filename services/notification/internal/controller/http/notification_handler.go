package http

import (
	"net/http"
	"strconv"

	"event-booking/pkg/logger"
	"event-booking/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// GetQueueStatus godoc
// @Summary      Notification queue status
// @Description  Number of jobs waiting on the notification queue
// @Tags         notifications
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /notifications/queue [get]
func (h *NotificationHandler) GetQueueStatus(c *gin.Context) {
	queueLength, err := h.notificationUseCase.QueueLength()
	if err != nil {
		h.logger.Error("Failed to get queue length: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Failed to get queue length"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"queue_length": queueLength})
}

// GetDeliveries godoc
// @Summary      Recent email deliveries
// @Description  Newest-first history of notification emails and their outcome
// @Tags         notifications
// @Produce      json
// @Param        limit query int false "Number of deliveries to return (max 500)"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /notifications/deliveries [get]
func (h *NotificationHandler) GetDeliveries(c *gin.Context) {
	limit := 50
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	deliveries, err := h.notificationUseCase.RecentDeliveries(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("Failed to get deliveries: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get deliveries"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"deliveries": deliveries,
		"count":      len(deliveries),
	})
}
