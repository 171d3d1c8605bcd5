package http

import (
	"errors"
	"net/http"

	"event-booking/pkg/logger"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, log *logger.Logger, err error) {
	switch {
	case errors.Is(err, usecase.ErrEventNotFound), errors.Is(err, usecase.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrAlreadyBooked):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrOwnEvent),
		errors.Is(err, usecase.ErrEventNotFree),
		errors.Is(err, usecase.ErrEventIsFree),
		errors.Is(err, usecase.ErrInvalidState),
		errors.Is(err, usecase.ErrCalendarNotConnected):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, usecase.ErrBannerStorageDisabled), errors.Is(err, usecase.ErrCalendarDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Error("Request %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
