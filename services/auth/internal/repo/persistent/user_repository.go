package persistent

import (
	"errors"
	"strings"

	"event-booking/services/auth/internal/entity"
	"event-booking/services/auth/internal/model"

	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrDuplicateUser = errors.New("user already exists")
)

type UserRepository interface {
	Create(user *entity.User) error
	GetByEmail(email string) (*entity.User, error)
	GetByID(id string) (*entity.User, error)
	UpdatePassword(id, passwordHash string) error
	UpdateRefreshToken(id, refreshToken string) error
	MarkVerified(id string) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(user *entity.User) error {
	userModel := ToUserModel(user)
	if err := r.db.Create(userModel).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateUser
		}
		return err
	}
	*user = *ToUserEntity(userModel)
	return nil
}

func (r *userRepository) GetByEmail(email string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("email = ?", strings.ToLower(email)).First(&userModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) GetByID(id string) (*entity.User, error) {
	var userModel model.UserModel
	if err := r.db.Where("id = ?", id).First(&userModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToUserEntity(&userModel), nil
}

func (r *userRepository) UpdatePassword(id, passwordHash string) error {
	return r.updateColumns(id, map[string]interface{}{"password": passwordHash})
}

// UpdateRefreshToken stores token, or clears it when token is empty.
func (r *userRepository) UpdateRefreshToken(id, refreshToken string) error {
	var value interface{}
	if refreshToken != "" {
		value = refreshToken
	}
	return r.updateColumns(id, map[string]interface{}{"refresh_token": value})
}

func (r *userRepository) MarkVerified(id string) error {
	return r.updateColumns(id, map[string]interface{}{"is_verified": true})
}

func (r *userRepository) updateColumns(id string, columns map[string]interface{}) error {
	result := r.db.Model(&model.UserModel{}).Where("id = ?", id).Updates(columns)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	// SQLSTATE 23505 when TranslateError is off
	return strings.Contains(err.Error(), "23505")
}
