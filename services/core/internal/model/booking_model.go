package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingModel struct {
	ID              string  `gorm:"type:uuid;primary_key"`
	EventID         string  `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_event_user"`
	UserID          string  `gorm:"type:uuid;not null;uniqueIndex:idx_bookings_event_user;index"`
	PaymentID       *string `gorm:"type:varchar(255)"`
	CalendarEventID string  `gorm:"type:varchar(64)"`
	CreatedAt       time.Time
	Event           *EventModel `gorm:"foreignKey:EventID"`
}

func (BookingModel) TableName() string {
	return "bookings"
}

func (b *BookingModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
