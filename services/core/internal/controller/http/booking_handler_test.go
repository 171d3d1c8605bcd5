package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBookingID = "6a1f3e0b-5c9d-4e2a-8f7b-1d0c2b3a4f5e"

func TestBookFreeEvent(t *testing.T) {
	uc := new(MockBookingUseCase)
	uc.On("BookFreeEvent", callerID, callerEmail, testEventID).Return(&entity.Booking{ID: testBookingID, EventID: testEventID, UserID: callerID}, nil).Once()
	uc.On("BookFreeEvent", callerID, callerEmail, testEventID).Return(nil, usecase.ErrAlreadyBooked).Once()
	uc.On("BookFreeEvent", callerID, callerEmail, testEventID).Return(nil, usecase.ErrEventNotFree)
	r := setupRouter(nil, uc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/bookings/free", gin.H{"eventId": testEventID})
	require.Equal(t, http.StatusCreated, w.Code)

	var booking entity.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &booking))
	assert.Equal(t, testBookingID, booking.ID)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/free", gin.H{"eventId": testEventID})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/free", gin.H{"eventId": testEventID})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/free", gin.H{"eventId": "nope"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "BookFreeEvent", 3)
}

func TestBookPaidEvent(t *testing.T) {
	uc := new(MockBookingUseCase)
	payment := "pi_3Nabc"
	uc.On("BookPaidEvent", callerID, callerEmail, testEventID, payment).Return(&entity.Booking{ID: testBookingID, PaymentID: &payment}, nil).Once()
	uc.On("BookPaidEvent", callerID, callerEmail, testEventID, payment).Return(nil, usecase.ErrOwnEvent)
	r := setupRouter(nil, uc, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/bookings/paid", gin.H{"eventId": testEventID, "paymentId": payment})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), payment)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/paid", gin.H{"eventId": testEventID, "paymentId": payment})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/bookings/paid", gin.H{"eventId": testEventID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "BookPaidEvent", 2)
}

func TestCancelBooking(t *testing.T) {
	uc := new(MockBookingUseCase)
	uc.On("CancelBooking", callerID, callerEmail, testBookingID).Return(nil).Once()
	uc.On("CancelBooking", callerID, callerEmail, testBookingID).Return(usecase.ErrForbidden).Once()
	uc.On("CancelBooking", callerID, callerEmail, testBookingID).Return(usecase.ErrBookingNotFound)
	r := setupRouter(nil, uc, nil)

	path := "/api/v1/bookings/" + testBookingID
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusForbidden, doJSON(r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(r, http.MethodDelete, path, nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodDelete, "/api/v1/bookings/bogus", nil).Code)
}

func TestGetMyBookings(t *testing.T) {
	uc := new(MockBookingUseCase)
	uc.On("ListBookings", callerID).Return([]*entity.Booking{
		{ID: testBookingID, EventID: testEventID, UserID: callerID, Event: sampleEvent()},
	}, nil)

	w := doJSON(setupRouter(nil, uc, nil), http.MethodGet, "/api/v1/bookings/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)
	assert.Contains(t, w.Body.String(), "Go meetup")
}
