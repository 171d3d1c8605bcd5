package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserModel struct {
	ID           string  `gorm:"type:uuid;primary_key"`
	Email        string  `gorm:"uniqueIndex;not null"`
	Password     string  `gorm:"not null"`
	IsVerified   bool    `gorm:"not null;default:false"`
	RefreshToken *string `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
