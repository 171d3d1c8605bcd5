package usecase

import (
	"context"
	"errors"
	"fmt"

	"event-booking/pkg/logger"
	"event-booking/pkg/notify"
	"event-booking/pkg/queue"
	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/repo/persistent"
)

type BookingUseCase interface {
	BookFreeEvent(ctx context.Context, userID, email, eventID string) (*entity.Booking, error)
	// BookPaidEvent records a booking for a priced event. Payment happens
	// elsewhere; paymentID is the provider's reference.
	BookPaidEvent(ctx context.Context, userID, email, eventID, paymentID string) (*entity.Booking, error)
	CancelBooking(ctx context.Context, userID, email, bookingID string) error
	ListBookings(ctx context.Context, userID string) ([]*entity.Booking, error)
}

type bookingUseCase struct {
	bookingRepo persistent.BookingRepository
	eventRepo   persistent.EventRepository
	calendar    CalendarUseCase
	publisher   queue.Publisher
	queueName   string
	logger      *logger.Logger
}

func NewBookingUseCase(
	bookingRepo persistent.BookingRepository,
	eventRepo persistent.EventRepository,
	calendar CalendarUseCase,
	publisher queue.Publisher,
	queueName string,
	logger *logger.Logger,
) BookingUseCase {
	return &bookingUseCase{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
		calendar:    calendar,
		publisher:   publisher,
		queueName:   queueName,
		logger:      logger,
	}
}

func (uc *bookingUseCase) BookFreeEvent(ctx context.Context, userID, email, eventID string) (*entity.Booking, error) {
	event, err := uc.bookableEvent(userID, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsFree() {
		return nil, ErrEventNotFree
	}
	return uc.book(ctx, userID, email, event, nil)
}

func (uc *bookingUseCase) BookPaidEvent(ctx context.Context, userID, email, eventID, paymentID string) (*entity.Booking, error) {
	event, err := uc.bookableEvent(userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsFree() {
		return nil, ErrEventIsFree
	}
	return uc.book(ctx, userID, email, event, &paymentID)
}

func (uc *bookingUseCase) CancelBooking(ctx context.Context, userID, email, bookingID string) error {
	booking, err := uc.bookingRepo.GetByID(bookingID)
	if err != nil {
		if errors.Is(err, persistent.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.UserID != userID {
		return ErrForbidden
	}

	event := booking.Event
	if event == nil {
		if event, err = uc.loadEvent(booking.EventID); err != nil {
			return err
		}
	}

	// The email goes out before the booking is removed
	if err := uc.publishBookingDetails(ctx, email, event, booking.PaymentID, notify.BookingCanceled); err != nil {
		return err
	}

	if err := uc.bookingRepo.Delete(booking.ID); err != nil {
		uc.logger.Error("Failed to delete booking %s: %v", booking.ID, err)
		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	uc.logger.Info("Booking canceled: id=%s, user_id=%s", booking.ID, userID)

	if booking.CalendarEventID != "" {
		if err := uc.calendar.RemoveBooking(ctx, userID, booking.CalendarEventID); err != nil {
			uc.logger.Warn("Failed to remove booking %s from calendar: %v", booking.ID, err)
		}
	}
	return nil
}

func (uc *bookingUseCase) ListBookings(ctx context.Context, userID string) ([]*entity.Booking, error) {
	return uc.bookingRepo.ListByUser(userID)
}

func (uc *bookingUseCase) book(ctx context.Context, userID, email string, event *entity.Event, paymentID *string) (*entity.Booking, error) {
	booking := &entity.Booking{
		EventID:   event.ID,
		UserID:    userID,
		PaymentID: paymentID,
		Event:     event,
	}
	if err := uc.bookingRepo.Create(booking); err != nil {
		if errors.Is(err, persistent.ErrAlreadyBooked) {
			return nil, ErrAlreadyBooked
		}
		uc.logger.Error("Failed to create booking for event %s: %v", event.ID, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	uc.logger.Info("Booking created: id=%s, event_id=%s, user_id=%s", booking.ID, event.ID, userID)

	if err := uc.publishBookingDetails(ctx, email, event, paymentID, notify.BookingCreated); err != nil {
		return nil, err
	}

	uc.syncCalendar(ctx, userID, booking)
	return booking, nil
}

// syncCalendar never fails the booking.
func (uc *bookingUseCase) syncCalendar(ctx context.Context, userID string, booking *entity.Booking) {
	entryID, err := uc.calendar.AddBooking(ctx, userID, booking.Event)
	switch {
	case errors.Is(err, ErrCalendarDisabled), errors.Is(err, ErrCalendarNotConnected):
		return
	case err != nil:
		uc.logger.Error("Error creating calendar event for booking %s: %v", booking.ID, err)
		return
	}

	if err := uc.bookingRepo.SetCalendarEventID(booking.ID, entryID); err != nil {
		uc.logger.Warn("Failed to store calendar entry for booking %s: %v", booking.ID, err)
		return
	}
	booking.CalendarEventID = entryID
}

func (uc *bookingUseCase) bookableEvent(userID, eventID string) (*entity.Event, error) {
	event, err := uc.loadEvent(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID == userID {
		return nil, ErrOwnEvent
	}
	return event, nil
}

func (uc *bookingUseCase) loadEvent(eventID string) (*entity.Event, error) {
	event, err := uc.eventRepo.GetByID(eventID)
	if err != nil {
		if errors.Is(err, persistent.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

func (uc *bookingUseCase) publishBookingDetails(ctx context.Context, to string, event *entity.Event, paymentID *string, subject notify.BookingSubject) error {
	job := notify.BookingDetailsPayload{
		To:         to,
		EventTitle: event.Title,
		Location:   event.Location,
		Time:       event.Date,
		PaymentID:  paymentID,
		Subject:    subject,
	}

	uc.logger.Info("[NOTIFICATION QUEUE] Publishing booking %s: event_id=%s", subject, event.ID)
	if err := uc.publisher.Publish(ctx, uc.queueName, job); err != nil {
		return fmt.Errorf("failed to send booking details: %w", err)
	}
	return nil
}
