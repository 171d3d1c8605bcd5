package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"event-booking/pkg/cache"
	"event-booking/pkg/logger"
	"event-booking/pkg/notify"
	"event-booking/pkg/queue"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/repo/persistent"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BannerStore is the object storage used for event banners.
type BannerStore interface {
	UploadFile(ctx context.Context, key string, body io.Reader, contentType string) (string, error)
	KeyFromURL(url string) (string, bool)
	DeleteFile(ctx context.Context, key string) error
}

type CreateEventInput struct {
	Title       string
	Description string
	Date        time.Time
	Location    string
	SeatPrice   decimal.Decimal
}

type EventUseCase interface {
	CreateEvent(ctx context.Context, organizerID, organizerEmail string, input CreateEventInput) (*entity.Event, error)
	GetEvent(ctx context.Context, eventID string) (*entity.Event, error)
	ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error)
	ListByDay(ctx context.Context, day time.Time) ([]*entity.Event, error)
	ListByMonth(ctx context.Context, month time.Time) ([]*entity.Event, error)
	UpdateEvent(ctx context.Context, callerID, callerEmail, eventID string, update entity.EventUpdate) (*entity.Event, error)
	DeleteEvent(ctx context.Context, callerID, callerEmail, eventID string) error
	SetSeatPrice(ctx context.Context, callerID, callerEmail, eventID string, price decimal.Decimal) (*entity.Event, error)
	UploadBanner(ctx context.Context, callerID, eventID string, file io.Reader, filename, contentType string) (*entity.Event, error)
}

type eventUseCase struct {
	eventRepo  persistent.EventRepository
	eventCache persistent.EventCache
	banners    BannerStore
	publisher  queue.Publisher
	queueName  string
	logger     *logger.Logger
}

// NewEventUseCase builds the event usecase. eventCache and banners may be nil.
func NewEventUseCase(
	eventRepo persistent.EventRepository,
	eventCache persistent.EventCache,
	banners BannerStore,
	publisher queue.Publisher,
	queueName string,
	logger *logger.Logger,
) EventUseCase {
	return &eventUseCase{
		eventRepo:  eventRepo,
		eventCache: eventCache,
		banners:    banners,
		publisher:  publisher,
		queueName:  queueName,
		logger:     logger,
	}
}

func (uc *eventUseCase) CreateEvent(ctx context.Context, organizerID, organizerEmail string, input CreateEventInput) (*entity.Event, error) {
	if input.SeatPrice.IsNegative() {
		return nil, ErrInvalidPrice
	}

	event := &entity.Event{
		Title:       input.Title,
		Description: input.Description,
		Date:        input.Date.UTC(),
		Location:    input.Location,
		SeatPrice:   input.SeatPrice,
		OrganizerID: organizerID,
	}
	if err := uc.eventRepo.Create(event); err != nil {
		uc.logger.Error("Failed to create event: %v", err)
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	uc.logger.Info("Event created: id=%s, organizer_id=%s", event.ID, organizerID)

	if err := uc.publishEventDetails(ctx, organizerEmail, event, notify.EventCreated); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *eventUseCase) GetEvent(ctx context.Context, eventID string) (*entity.Event, error) {
	if uc.eventCache != nil {
		event, err := uc.eventCache.Get(ctx, eventID)
		if err == nil {
			return event, nil
		}
		if !errors.Is(err, cache.ErrMiss) {
			uc.logger.Warn("Event cache read failed for %s: %v", eventID, err)
		}
	}

	event, err := uc.loadEvent(eventID)
	if err != nil {
		return nil, err
	}

	if uc.eventCache != nil {
		if err := uc.eventCache.Set(ctx, event); err != nil {
			uc.logger.Warn("Failed to cache event %s: %v", eventID, err)
		}
	}
	return event, nil
}

func (uc *eventUseCase) ListByOrganizer(ctx context.Context, organizerID string) ([]*entity.Event, error) {
	return uc.eventRepo.ListByOrganizer(organizerID)
}

func (uc *eventUseCase) ListByDay(ctx context.Context, day time.Time) ([]*entity.Event, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return uc.eventRepo.ListBetween(from, from.AddDate(0, 0, 1))
}

func (uc *eventUseCase) ListByMonth(ctx context.Context, month time.Time) ([]*entity.Event, error) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	return uc.eventRepo.ListBetween(from, from.AddDate(0, 1, 0))
}

func (uc *eventUseCase) UpdateEvent(ctx context.Context, callerID, callerEmail, eventID string, update entity.EventUpdate) (*entity.Event, error) {
	event, err := uc.ownedEvent(callerID, eventID)
	if err != nil {
		return nil, err
	}

	update.Apply(event)
	event.Date = event.Date.UTC()
	if err := uc.eventRepo.Update(event); err != nil {
		uc.logger.Error("Failed to update event %s: %v", eventID, err)
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	uc.invalidate(ctx, eventID)

	if err := uc.publishEventDetails(ctx, callerEmail, event, notify.EventUpdated); err != nil {
		return nil, err
	}
	return event, nil
}

func (uc *eventUseCase) DeleteEvent(ctx context.Context, callerID, callerEmail, eventID string) error {
	event, err := uc.ownedEvent(callerID, eventID)
	if err != nil {
		return err
	}

	if err := uc.eventRepo.Delete(eventID); err != nil {
		uc.logger.Error("Failed to delete event %s: %v", eventID, err)
		return fmt.Errorf("failed to delete event: %w", err)
	}
	uc.invalidate(ctx, eventID)
	uc.removeBanner(ctx, event.BannerURL)

	return uc.publishEventDetails(ctx, callerEmail, event, notify.EventCanceled)
}

func (uc *eventUseCase) SetSeatPrice(ctx context.Context, callerID, callerEmail, eventID string, price decimal.Decimal) (*entity.Event, error) {
	if price.IsNegative() {
		return nil, ErrInvalidPrice
	}

	event, err := uc.ownedEvent(callerID, eventID)
	if err != nil {
		return nil, err
	}

	if err := uc.eventRepo.UpdateSeatPrice(eventID, price); err != nil {
		uc.logger.Error("Failed to update seat price for event %s: %v", eventID, err)
		return nil, fmt.Errorf("failed to update seat price: %w", err)
	}
	event.SeatPrice = price
	uc.invalidate(ctx, eventID)

	uc.logger.Info("[NOTIFICATION QUEUE] Publishing price update: event_id=%s", eventID)
	if err := uc.publisher.Publish(ctx, uc.queueName, notify.PriceUpdatePayload{To: callerEmail, EventID: event.ID}); err != nil {
		return nil, fmt.Errorf("failed to send price update: %w", err)
	}
	return event, nil
}

func (uc *eventUseCase) UploadBanner(ctx context.Context, callerID, eventID string, file io.Reader, filename, contentType string) (*entity.Event, error) {
	if uc.banners == nil {
		return nil, ErrBannerStorageDisabled
	}

	event, err := uc.ownedEvent(callerID, eventID)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("events/%s/banner-%s%s", eventID, uuid.New().String(), strings.ToLower(filepath.Ext(filename)))
	bannerURL, err := uc.banners.UploadFile(ctx, key, file, contentType)
	if err != nil {
		uc.logger.Error("Failed to upload banner for event %s: %v", eventID, err)
		return nil, err
	}

	if err := uc.eventRepo.UpdateBanner(eventID, bannerURL); err != nil {
		uc.logger.Error("Failed to save banner for event %s: %v", eventID, err)
		return nil, fmt.Errorf("failed to save banner: %w", err)
	}

	uc.removeBanner(ctx, event.BannerURL)
	event.BannerURL = bannerURL
	uc.invalidate(ctx, eventID)
	return event, nil
}

func (uc *eventUseCase) loadEvent(eventID string) (*entity.Event, error) {
	event, err := uc.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, persistent.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (uc *eventUseCase) ownedEvent(callerID, eventID string) (*entity.Event, error) {
	event, err := uc.loadEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		return nil, ErrForbidden
	}
	return event, nil
}

func (uc *eventUseCase) invalidate(ctx context.Context, eventID string) {
	if uc.eventCache == nil {
		return
	}
	if err := uc.eventCache.Invalidate(ctx, eventID); err != nil {
		uc.logger.Warn("Failed to invalidate cached event %s: %v", eventID, err)
	}
}

func (uc *eventUseCase) removeBanner(ctx context.Context, bannerURL string) {
	if uc.banners == nil || bannerURL == "" {
		return
	}
	key, ok := uc.banners.KeyFromURL(bannerURL)
	if !ok {
		return
	}
	if err := uc.banners.DeleteFile(ctx, key); err != nil {
		uc.logger.Warn("Failed to delete banner %s: %v", key, err)
	}
}

func (uc *eventUseCase) publishEventDetails(ctx context.Context, to string, event *entity.Event, status notify.EventStatus) error {
	job := notify.EventDetailsPayload{
		To:          to,
		EventID:     event.ID,
		Location:    event.Location,
		Time:        event.Date,
		EventStatus: status,
	}

	uc.logger.Info("[NOTIFICATION QUEUE] Publishing event %s: event_id=%s", status, event.ID)
	if err := uc.publisher.Publish(ctx, uc.queueName, job); err != nil {
		return fmt.Errorf("failed to send event details: %w", err)
	}
	return nil
}
