package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-booking/pkg/logger"
	"event-booking/services/core/internal/calendar"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/repo/persistent"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const oauthStateTTL = 10 * time.Minute

type CalendarUseCase interface {
	ConnectURL(ctx context.Context, userID string) (string, error)
	HandleCallback(ctx context.Context, state, code string) error
	Disconnect(ctx context.Context, userID string) error
	// AddBooking copies the event into the user's calendar and returns the entry id.
	AddBooking(ctx context.Context, userID string, event *entity.Event) (string, error)
	RemoveBooking(ctx context.Context, userID, entryID string) error
}

type calendarUseCase struct {
	client       calendar.Client
	calendarRepo persistent.CalendarRepository
	logger       *logger.Logger
}

// NewCalendarUseCase builds the calendar usecase. A nil client disables it.
func NewCalendarUseCase(client calendar.Client, calendarRepo persistent.CalendarRepository, logger *logger.Logger) CalendarUseCase {
	return &calendarUseCase{
		client:       client,
		calendarRepo: calendarRepo,
		logger:       logger,
	}
}

func (uc *calendarUseCase) ConnectURL(ctx context.Context, userID string) (string, error) {
	if uc.client == nil {
		return "", ErrCalendarDisabled
	}

	state := uuid.New().String()
	if err := uc.calendarRepo.SaveState(ctx, state, userID, oauthStateTTL); err != nil {
		uc.logger.Error("Failed to store oauth state: %v", err)
		return "", fmt.Errorf("failed to start calendar connection: %w", err)
	}
	return uc.client.AuthCodeURL(state), nil
}

func (uc *calendarUseCase) HandleCallback(ctx context.Context, state, code string) error {
	if uc.client == nil {
		return ErrCalendarDisabled
	}

	userID, err := uc.calendarRepo.TakeState(ctx, state)
	if err != nil {
		if errors.Is(err, persistent.ErrStateNotFound) {
			return ErrInvalidState
		}
		return fmt.Errorf("failed to read oauth state: %w", err)
	}

	token, err := uc.client.Exchange(ctx, code)
	if err != nil {
		uc.logger.Error("Google token exchange failed for user %s: %v", userID, err)
		return err
	}

	if err := uc.calendarRepo.SaveToken(ctx, userID, token); err != nil {
		uc.logger.Error("Failed to store calendar token for user %s: %v", userID, err)
		return fmt.Errorf("failed to store calendar token: %w", err)
	}

	uc.logger.Info("Google calendar connected for user %s", userID)
	return nil
}

func (uc *calendarUseCase) Disconnect(ctx context.Context, userID string) error {
	if uc.client == nil {
		return ErrCalendarDisabled
	}
	return uc.calendarRepo.DeleteToken(ctx, userID)
}

func (uc *calendarUseCase) AddBooking(ctx context.Context, userID string, event *entity.Event) (string, error) {
	if uc.client == nil {
		return "", ErrCalendarDisabled
	}

	token, err := uc.token(ctx, userID)
	if err != nil {
		return "", err
	}

	entryID := calendar.EntryID(event.ID)
	err = uc.client.Insert(ctx, token, calendar.Entry{
		ID:          entryID,
		Summary:     event.Title,
		Description: event.Description,
		Location:    event.Location,
		Start:       event.Date,
	})
	if err != nil {
		return "", err
	}
	return entryID, nil
}

func (uc *calendarUseCase) RemoveBooking(ctx context.Context, userID, entryID string) error {
	if uc.client == nil {
		return ErrCalendarDisabled
	}

	token, err := uc.token(ctx, userID)
	if err != nil {
		return err
	}
	return uc.client.Delete(ctx, token, entryID)
}

func (uc *calendarUseCase) token(ctx context.Context, userID string) (*oauth2.Token, error) {
	token, err := uc.calendarRepo.GetToken(ctx, userID)
	if err != nil {
		if errors.Is(err, persistent.ErrCalendarNotConnected) {
			return nil, ErrCalendarNotConnected
		}
		return nil, fmt.Errorf("failed to read calendar token: %w", err)
	}
	return token, nil
}
