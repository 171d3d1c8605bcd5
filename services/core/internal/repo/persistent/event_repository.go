package persistent

import (
	"errors"
	"strings"
	"time"

	"event-booking/services/core/internal/entity"
	"event-booking/services/core/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventRepository interface {
	Create(event *entity.Event) error
	GetByID(id string) (*entity.Event, error)
	ListByOrganizer(organizerID string) ([]*entity.Event, error)
	ListBetween(from, to time.Time) ([]*entity.Event, error)
	Update(event *entity.Event) error
	UpdateSeatPrice(id string, price decimal.Decimal) error
	UpdateBanner(id, bannerURL string) error
	Delete(id string) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *entity.Event) error {
	eventModel := ToEventModel(event)
	if err := r.db.Create(eventModel).Error; err != nil {
		return err
	}
	*event = *ToEventEntity(eventModel)
	return nil
}

func (r *eventRepository) GetByID(id string) (*entity.Event, error) {
	var eventModel model.EventModel
	if err := r.db.Where("id = ?", id).First(&eventModel).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return ToEventEntity(&eventModel), nil
}

func (r *eventRepository) ListByOrganizer(organizerID string) ([]*entity.Event, error) {
	return r.list(r.db.Where("organizer_id = ?", organizerID).Order("date ASC"))
}

// ListBetween returns events dated in [from, to).
func (r *eventRepository) ListBetween(from, to time.Time) ([]*entity.Event, error) {
	return r.list(r.db.Where("date >= ? AND date < ?", from.UTC(), to.UTC()).Order("date ASC"))
}

func (r *eventRepository) list(query *gorm.DB) ([]*entity.Event, error) {
	var eventModels []model.EventModel
	if err := query.Find(&eventModels).Error; err != nil {
		return nil, err
	}

	events := make([]*entity.Event, len(eventModels))
	for i := range eventModels {
		events[i] = ToEventEntity(&eventModels[i])
	}
	return events, nil
}

func (r *eventRepository) Update(event *entity.Event) error {
	return r.updateColumns(event.ID, map[string]interface{}{
		"title":       event.Title,
		"description": event.Description,
		"date":        event.Date.UTC(),
		"location":    event.Location,
	})
}

func (r *eventRepository) UpdateSeatPrice(id string, price decimal.Decimal) error {
	return r.updateColumns(id, map[string]interface{}{"seat_price": price})
}

func (r *eventRepository) UpdateBanner(id, bannerURL string) error {
	return r.updateColumns(id, map[string]interface{}{"banner_url": bannerURL})
}

// Delete removes the event together with its bookings.
func (r *eventRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.BookingModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.EventModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrEventNotFound
		}
		return nil
	})
}

func (r *eventRepository) updateColumns(id string, columns map[string]interface{}) error {
	result := r.db.Model(&model.EventModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLSTATE 23505 when TranslateError is off
	return strings.Contains(err.Error(), "23505")
}
