package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var eventDate = time.Date(2026, 5, 1, 18, 30, 0, 0, time.UTC)

func sampleEvent() *entity.Event {
	return &entity.Event{
		ID:          testEventID,
		Title:       "Go meetup",
		Location:    "Berlin",
		Date:        eventDate,
		SeatPrice:   decimal.Zero,
		OrganizerID: callerID,
	}
}

func TestCreateEvent(t *testing.T) {
	uc := new(MockEventUseCase)
	uc.On("CreateEvent", callerID, callerEmail, mock.MatchedBy(func(in usecase.CreateEventInput) bool {
		return in.Title == "Go meetup" && in.Date.Equal(eventDate) && in.SeatPrice.Equal(decimal.RequireFromString("12.50"))
	})).Return(sampleEvent(), nil)
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodPost, "/api/v1/events", gin.H{
		"title":     "Go meetup",
		"date":      "2026-05-01T18:30:00Z",
		"location":  "Berlin",
		"seatPrice": "12.50",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var event entity.Event
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &event))
	assert.Equal(t, testEventID, event.ID)

	w = doJSON(r, http.MethodPost, "/api/v1/events", gin.H{"title": "No date", "location": "Berlin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "CreateEvent", 1)
}

func TestCreateEvent_InvalidPrice(t *testing.T) {
	uc := new(MockEventUseCase)
	uc.On("CreateEvent", callerID, callerEmail, mock.Anything).Return(nil, usecase.ErrInvalidPrice)

	w := doJSON(setupRouter(uc, nil, nil), http.MethodPost, "/api/v1/events", gin.H{
		"title":     "Go meetup",
		"date":      "2026-05-01T18:30:00Z",
		"location":  "Berlin",
		"seatPrice": "-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetEvent(t *testing.T) {
	uc := new(MockEventUseCase)
	uc.On("GetEvent", testEventID).Return(sampleEvent(), nil)
	missing := "00000000-0000-0000-0000-000000000001"
	uc.On("GetEvent", missing).Return(nil, usecase.ErrEventNotFound)
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodGet, "/api/v1/events/"+testEventID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/events/"+missing, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/events/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "GetEvent", 2)
}

func TestListEvents(t *testing.T) {
	uc := new(MockEventUseCase)
	events := []*entity.Event{sampleEvent()}
	uc.On("ListByOrganizer", callerID).Return(events, nil)
	uc.On("ListByDay", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)).Return(events, nil)
	uc.On("ListByMonth", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)).Return([]*entity.Event{}, nil)
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodGet, "/api/v1/events/organizer/"+callerID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doJSON(r, http.MethodGet, "/api/v1/events/day/2026-05-01", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = doJSON(r, http.MethodGet, "/api/v1/events/month/2026-05", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":0`)

	w = doJSON(r, http.MethodGet, "/api/v1/events/day/05-01-2026", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/events/month/2026-13", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodGet, "/api/v1/events/organizer/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid organizer id")
	uc.AssertNumberOfCalls(t, "ListByOrganizer", 1)
}

func TestUpdateEvent(t *testing.T) {
	uc := new(MockEventUseCase)
	uc.On("UpdateEvent", callerID, callerEmail, testEventID, mock.MatchedBy(func(u entity.EventUpdate) bool {
		return u.Location != nil && *u.Location == "Hamburg" && u.Title == nil && u.Date == nil
	})).Return(sampleEvent(), nil).Once()
	uc.On("UpdateEvent", callerID, callerEmail, testEventID, mock.Anything).Return(nil, usecase.ErrForbidden)
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodPatch, "/api/v1/events/"+testEventID, gin.H{"location": "Hamburg"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/v1/events/"+testEventID, gin.H{"title": "Other"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteEvent(t *testing.T) {
	uc := new(MockEventUseCase)
	uc.On("DeleteEvent", callerID, callerEmail, testEventID).Return(nil).Once()
	uc.On("DeleteEvent", callerID, callerEmail, testEventID).Return(errors.New("failed to publish job: broker down"))
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodDelete, "/api/v1/events/"+testEventID, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodDelete, "/api/v1/events/"+testEventID, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "broker down")
}

func TestSetSeatPrice(t *testing.T) {
	uc := new(MockEventUseCase)
	priced := sampleEvent()
	priced.SeatPrice = decimal.RequireFromString("25.50")
	uc.On("SetSeatPrice", callerID, callerEmail, testEventID, mock.MatchedBy(func(p decimal.Decimal) bool {
		return p.Equal(decimal.RequireFromString("25.5"))
	})).Return(priced, nil)
	r := setupRouter(uc, nil, nil)

	w := doJSON(r, http.MethodPatch, "/api/v1/events/"+testEventID+"/price", gin.H{"seatPrice": "25.50"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"seat_price":"25.5"`)

	w = doJSON(r, http.MethodPatch, "/api/v1/events/"+testEventID+"/price", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func uploadBanner(t *testing.T, r *gin.Engine, filename string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("banner", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("image-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/events/"+testEventID+"/banner", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadBanner(t *testing.T) {
	uc := new(MockEventUseCase)
	withBanner := sampleEvent()
	withBanner.BannerURL = "https://bucket.s3.amazonaws.com/events/banner.png"
	uc.On("UploadBanner", callerID, testEventID, "banner.png", mock.Anything).Return(withBanner, nil)
	uc.On("UploadBanner", callerID, testEventID, "banner.jpg", mock.Anything).Return(nil, usecase.ErrBannerStorageDisabled)
	r := setupRouter(uc, nil, nil)

	w := uploadBanner(t, r, "banner.png")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "banner.png")

	w = uploadBanner(t, r, "banner.jpg")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = uploadBanner(t, r, "banner.gif")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/events/"+testEventID+"/banner", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "UploadBanner", 2)
}
