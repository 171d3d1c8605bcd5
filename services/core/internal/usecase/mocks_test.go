package usecase

import (
	"context"
	"io"
	"time"

	"event-booking/pkg/notify"
	"event-booking/pkg/queue"
	"event-booking/services/core/internal/calendar"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"golang.org/x/oauth2"
)

type MockEventRepository struct {
	mock.Mock
}

var _ persistent.EventRepository = (*MockEventRepository)(nil)

func (m *MockEventRepository) Create(event *entity.Event) error {
	args := m.Called(event)
	if args.Error(0) == nil && event.ID == "" {
		event.ID = uuid.New().String()
	}
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(id string) (*entity.Event, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	// Hand out a copy so callers cannot mutate the fixture
	event := *args.Get(0).(*entity.Event)
	return &event, args.Error(1)
}

func (m *MockEventRepository) ListByOrganizer(organizerID string) ([]*entity.Event, error) {
	args := m.Called(organizerID)
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventRepository) ListBetween(from, to time.Time) ([]*entity.Event, error) {
	args := m.Called(from, to)
	return args.Get(0).([]*entity.Event), args.Error(1)
}

func (m *MockEventRepository) Update(event *entity.Event) error {
	return m.Called(event).Error(0)
}

func (m *MockEventRepository) UpdateSeatPrice(id string, price decimal.Decimal) error {
	return m.Called(id, price).Error(0)
}

func (m *MockEventRepository) UpdateBanner(id, bannerURL string) error {
	return m.Called(id, bannerURL).Error(0)
}

func (m *MockEventRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

type MockBookingRepository struct {
	mock.Mock
}

var _ persistent.BookingRepository = (*MockBookingRepository)(nil)

func (m *MockBookingRepository) Create(booking *entity.Booking) error {
	args := m.Called(booking)
	if args.Error(0) == nil && booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(id string) (*entity.Booking, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(userID string) ([]*entity.Booking, error) {
	args := m.Called(userID)
	return args.Get(0).([]*entity.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetCalendarEventID(id, calendarEventID string) error {
	return m.Called(id, calendarEventID).Error(0)
}

func (m *MockBookingRepository) Delete(id string) error {
	return m.Called(id).Error(0)
}

type MockEventCache struct {
	mock.Mock
}

var _ persistent.EventCache = (*MockEventCache)(nil)

func (m *MockEventCache) Get(ctx context.Context, id string) (*entity.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Event), args.Error(1)
}

func (m *MockEventCache) Set(ctx context.Context, event *entity.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventCache) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockBannerStore struct {
	mock.Mock
}

var _ BannerStore = (*MockBannerStore)(nil)

func (m *MockBannerStore) UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, body, contentType)
	return args.String(0), args.Error(1)
}

func (m *MockBannerStore) KeyFromURL(url string) (string, bool) {
	args := m.Called(url)
	return args.String(0), args.Bool(1)
}

func (m *MockBannerStore) DeleteFile(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

var _ queue.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) Publish(ctx context.Context, queueName string, job notify.Job) error {
	return m.Called(ctx, queueName, job).Error(0)
}

// published returns the jobs passed to Publish, in order.
func (m *MockPublisher) published() []notify.Job {
	var jobs []notify.Job
	for _, call := range m.Calls {
		if call.Method == "Publish" {
			jobs = append(jobs, call.Arguments.Get(2).(notify.Job))
		}
	}
	return jobs
}

type MockCalendarUseCase struct {
	mock.Mock
}

var _ CalendarUseCase = (*MockCalendarUseCase)(nil)

func (m *MockCalendarUseCase) ConnectURL(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarUseCase) HandleCallback(ctx context.Context, state, code string) error {
	return m.Called(ctx, state, code).Error(0)
}

func (m *MockCalendarUseCase) Disconnect(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCalendarUseCase) AddBooking(ctx context.Context, userID string, event *entity.Event) (string, error) {
	args := m.Called(ctx, userID, event)
	return args.String(0), args.Error(1)
}

func (m *MockCalendarUseCase) RemoveBooking(ctx context.Context, userID, entryID string) error {
	return m.Called(ctx, userID, entryID).Error(0)
}

type MockCalendarClient struct {
	mock.Mock
}

var _ calendar.Client = (*MockCalendarClient)(nil)

func (m *MockCalendarClient) AuthCodeURL(state string) string {
	return m.Called(state).String(0)
}

func (m *MockCalendarClient) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*oauth2.Token), args.Error(1)
}

func (m *MockCalendarClient) Insert(ctx context.Context, token *oauth2.Token, entry calendar.Entry) error {
	return m.Called(ctx, token, entry).Error(0)
}

func (m *MockCalendarClient) Delete(ctx context.Context, token *oauth2.Token, entryID string) error {
	return m.Called(ctx, token, entryID).Error(0)
}
