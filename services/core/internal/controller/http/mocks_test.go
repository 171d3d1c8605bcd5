package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"time"

	"event-booking/pkg/logger"
	"event-booking/pkg/middleware"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

const (
	callerID    = "8d7c5f0e-9a51-4c1f-a0e4-0d5f2f1d9c11"
	callerEmail = "jane@example.com"
	testEventID = "2f9f4c1e-7d0b-4f57-9b3b-52f1b8d5a3e0"
)

type MockEventUseCase struct {
	mock.Mock
}

var _ usecase.EventUseCase = (*MockEventUseCase)(nil)

func (m *MockEventUseCase) event(args mock.Arguments) (*entity.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventUseCase) CreateEvent(ctx context.Context, organizerID, organizerEmail string, input usecase.CreateEventInput) (*entity.Event, error) {
	return m.event(m.Called(organizerID, organizerEmail, input))
}

func (m *MockEventUseCase) GetEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	return m.event(m.Called(eventID))
}

func (m *MockEventUseCase) ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error) {
	args := m.Called(organizerID)
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventUseCase) ListByDay(ctx context.Context, day time.Time) ([]*entity.Event, error) {
	args := m.Called(day)
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventUseCase) ListByMonth(ctx context.Context, month time.Time) ([]*entity.Event, error) {
	args := m.Called(month)
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventUseCase) UpdateEvent(ctx context.Context, callerID, callerEmail, eventID string, update entity.EventUpdate) (*entity.Event, error) {
	return m.event(m.Called(callerID, callerEmail, eventID, update))
}

func (m *MockEventUseCase) DeleteEvent(ctx context.Context, callerID, callerEmail, eventID string) error {
	return m.Called(callerID, callerEmail, eventID).Error(0)
}

func (m *MockEventUseCase) SetSeatPrice(ctx context.Context, callerID, callerEmail, eventID string, price decimal.Decimal) (*entity.Event, error) {
	return m.event(m.Called(callerID, callerEmail, eventID, price))
}

func (m *MockEventUseCase) UploadBanner(ctx context.Context, callerID, eventID string, file io.Reader, filename, contentType string) (*entity.Event, error) {
	return m.event(m.Called(callerID, eventID, filename, contentType))
}

type MockBookingUseCase struct {
	mock.Mock
}

var _ usecase.BookingUseCase = (*MockBookingUseCase)(nil)

func (m *MockBookingUseCase) booking(args mock.Arguments) (*entity.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingUseCase) BookFreeEvent(ctx context.Context, userID, email, eventID string) (*entity.Booking, error) {
	return m.booking(m.Called(userID, email, eventID))
}

func (m *MockBookingUseCase) BookPaidEvent(ctx context.Context, userID, email, eventID, paymentID string) (*entity.Booking, error) {
	return m.booking(m.Called(userID, email, eventID, paymentID))
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, userID, email, bookingID string) error {
	return m.Called(userID, email, bookingID).Error(0)
}

func (m *MockBookingUseCase) ListBookings(ctx context.Context, userID string) ([]*entity.Booking, error) {
	args := m.Called(userID)
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

type MockCalendarUseCase struct {
	mock.Mock
}

var _ usecase.CalendarUseCase = (*MockCalendarUseCase)(nil)

func (m *MockCalendarUseCase) ConnectURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarUseCase) HandleCallback(ctx context.Context, state, code string) error {
	return m.Called(state, code).Error(0)
}

func (m *MockCalendarUseCase) Disconnect(ctx context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

func (m *MockCalendarUseCase) AddBooking(ctx context.Context, userID string, event *entity.Event) (string, error) {
	args := m.Called(userID, event)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarUseCase) RemoveBooking(ctx context.Context, userID, entryID string) error {
	return m.Called(userID, entryID).Error(0)
}

// setupRouter mounts every core handler behind a stub standing in for the
// JWT middleware.
func setupRouter(events usecase.EventUseCase, bookings usecase.BookingUseCase, cal usecase.CalendarUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New()

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, callerID)
		c.Set(middleware.ContextUserEmail, callerEmail)
		c.Next()
	})

	api := r.Group("/api/v1")
	if events != nil {
		h := NewEventHandler(events, log)
		g := api.Group("/events")
		g.POST("", h.CreateEvent)
		g.GET("/organizer/:organizerId", h.GetOrganizerEvents)
		g.GET("/day/:day", h.GetEventsByDay)
		g.GET("/month/:month", h.GetEventsByMonth)
		g.GET("/:eventId", h.GetEvent)
		g.PATCH("/:eventId", h.UpdateEvent)
		g.DELETE("/:eventId", h.DeleteEvent)
		g.PATCH("/:eventId/price", h.SetSeatPrice)
		g.POST("/:eventId/banner", h.UploadBanner)
	}
	if bookings != nil {
		h := NewBookingHandler(bookings, log)
		g := api.Group("/bookings")
		g.POST("/free", h.BookFreeEvent)
		g.POST("/paid", h.BookPaidEvent)
		g.DELETE("/:bookingId", h.CancelBooking)
		g.GET("/me", h.GetMyBookings)
	}
	if cal != nil {
		h := NewCalendarHandler(cal, log)
		g := api.Group("/calendar")
		g.GET("/connect", h.Connect)
		g.GET("/callback", h.Callback)
		g.DELETE("/connection", h.Disconnect)
	}
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}
