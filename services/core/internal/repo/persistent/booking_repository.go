package persistent

import (
	"errors"

	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/model"

	"gorm.io/gorm"
)

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrAlreadyBooked   = errors.New("event already booked by user")
)

type BookingRepository interface {
	Create(booking *entity.Booking) error
	GetByID(id string) (*entity.Booking, error)
	ListByUser(userID string) ([]*entity.Booking, error)
	SetCalendarEventID(id, calendarEventID string) error
	Delete(id string) error
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(booking *entity.Booking) error {
	bookingModel := ToBookingModel(booking)
	if err := r.db.Create(bookingModel).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrAlreadyBooked
		}
		return err
	}

	event := booking.Event
	*booking = *ToBookingEntity(bookingModel)
	booking.Event = event
	return nil
}

func (r *bookingRepository) GetByID(id string) (*entity.Booking, error) {
	var bookingModel model.BookingModel
	if err := r.db.Preload("Event").Where("id = ?", id).First(&bookingModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return ToBookingEntity(&bookingModel), nil
}

func (r *bookingRepository) ListByUser(userID string) ([]*entity.Booking, error) {
	var bookingModels []model.BookingModel
	if err := r.db.Preload("Event").Where("user_id = ?", userID).Order("created_at DESC").Find(&bookingModels).Error; err != nil {
		return nil, err
	}

	bookings := make([]*entity.Booking, len(bookingModels))
	for i := range bookingModels {
		bookings[i] = ToBookingEntity(&bookingModels[i])
	}
	return bookings, nil
}

func (r *bookingRepository) SetCalendarEventID(id, calendarEventID string) error {
	result := r.db.Model(&model.BookingModel{}).Where("id = ?", id).Update("calendar_event_id", calendarEventID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&model.BookingModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBookingNotFound
	}
	return nil
}
