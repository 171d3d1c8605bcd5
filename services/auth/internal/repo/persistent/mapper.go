package persistent

import (
	"event-booking/services/auth/internal/entity"
	"event-booking/services/auth/internal/model"
)

func ToUserEntity(m *model.UserModel) *entity.User {
	if m == nil {
		return nil
	}

	user := &entity.User{
		ID:         m.ID,
		Email:      m.Email,
		Password:   m.Password,
		IsVerified: m.IsVerified,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.RefreshToken != nil {
		user.RefreshToken = *m.RefreshToken
	}
	return user
}

func ToUserModel(e *entity.User) *model.UserModel {
	if e == nil {
		return nil
	}

	m := &model.UserModel{
		ID:         e.ID,
		Email:      e.Email,
		Password:   e.Password,
		IsVerified: e.IsVerified,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
	if e.RefreshToken != "" {
		token := e.RefreshToken
		m.RefreshToken = &token
	}
	return m
}
