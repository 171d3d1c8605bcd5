package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type EventModel struct {
	ID          string          `gorm:"type:uuid;primary_key"`
	Title       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	Date        time.Time       `gorm:"not null;index"`
	Location    string          `gorm:"type:varchar(255);not null"`
	SeatPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	BannerURL   string          `gorm:"type:varchar(500)"`
	OrganizerID string          `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (EventModel) TableName() string {
	return "events"
}

func (e *EventModel) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return nil
}
