package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-booking/pkg/logger"
	"event-booking/pkg/middleware"
	"event-booking/services/auth/internal/entity"
	"event-booking/services/auth/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAuthUseCase struct {
	mock.Mock
}

var _ usecase.AuthUseCase = (*MockAuthUseCase)(nil)

func (m *MockAuthUseCase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockAuthUseCase) Login(ctx context.Context, email, password string) (*entity.User, *entity.TokenPair, error) {
	args := m.Called(email, password)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*entity.User), args.Get(1).(*entity.TokenPair), args.Error(2)
}

func (m *MockAuthUseCase) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthUseCase) ChangePassword(ctx context.Context, callerID, userID, oldPassword, newPassword string) error {
	return m.Called(callerID, userID, oldPassword, newPassword).Error(0)
}

func (m *MockAuthUseCase) SendVerificationOtp(ctx context.Context, userID string) error {
	return m.Called(userID).Error(0)
}

func (m *MockAuthUseCase) VerifyUser(ctx context.Context, userID, otp string) error {
	return m.Called(userID, otp).Error(0)
}

func (m *MockAuthUseCase) SendResetPasswordOtp(ctx context.Context, email string) error {
	return m.Called(email).Error(0)
}

func (m *MockAuthUseCase) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	return m.Called(email, otp, newPassword).Error(0)
}

func (m *MockAuthUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// setupRouter mounts the handler with a stub that plays the role of the JWT
// middleware for the given caller.
func setupRouter(uc usecase.AuthUseCase, callerID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(uc, logger.New())

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if callerID != "" {
			c.Set(middleware.ContextUserID, callerID)
		}
		c.Next()
	})

	auth := r.Group("/api/v1/auth")
	auth.POST("/register", h.Register)
	auth.POST("/login", h.Login)
	auth.POST("/refresh-token", h.RefreshToken)
	auth.POST("/change-password/:userId", h.ChangePassword)
	auth.POST("/send-verification-otp", h.SendVerificationOtp)
	auth.PATCH("/verify-user", h.VerifyUser)
	auth.POST("/send-reset-password-otp", h.SendResetPasswordOtp)
	auth.PATCH("/reset-password", h.ResetPassword)
	auth.GET("/me", h.Me)
	return r
}

func doJSON(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegister(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("Register", "jane@example.com", "supersecret").Return(&entity.User{ID: "u1", Email: "jane@example.com", Password: "hash"}, nil)
	uc.On("Register", "taken@example.com", "supersecret").Return(nil, usecase.ErrUserExists)
	r := setupRouter(uc, "")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "jane@example.com", "password": "supersecret"})
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "hash")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "taken@example.com", "password": "supersecret"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "jane@example.com", "password": "short"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/register", gin.H{"email": "not-an-email", "password": "supersecret"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("Login", "jane@example.com", "supersecret").Return(
		&entity.User{ID: "u1", Email: "jane@example.com"},
		&entity.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		nil,
	)
	uc.On("Login", "jane@example.com", "wrong").Return(nil, nil, usecase.ErrIncorrectPassword)
	uc.On("Login", "ghost@example.com", "whatever").Return(nil, nil, usecase.ErrUserNotFound)
	r := setupRouter(uc, "")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "supersecret"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "access", resp.AccessToken)
	assert.Equal(t, "refresh", resp.RefreshToken)
	assert.Equal(t, "u1", resp.User.ID)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "jane@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/login", gin.H{"email": "ghost@example.com", "password": "whatever"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRefreshToken(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("RefreshAccessToken", "good").Return("new-access", nil)
	uc.On("RefreshAccessToken", "bad").Return("", usecase.ErrInvalidRefreshToken)
	r := setupRouter(uc, "")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{"refreshToken": "good"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "new-access")

	w = doJSON(r, http.MethodPost, "/api/v1/auth/refresh-token", gin.H{"refreshToken": "bad"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestChangePassword(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("ChangePassword", "u1", "u1", "old-password", "new-password").Return(nil)
	uc.On("ChangePassword", "u1", "u2", "old-password", "new-password").Return(usecase.ErrForbidden)
	r := setupRouter(uc, "u1")

	body := gin.H{"oldPassword": "old-password", "newPassword": "new-password"}

	w := doJSON(r, http.MethodPost, "/api/v1/auth/change-password/u1", body)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/change-password/u2", body)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestSendVerificationOtp(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("SendVerificationOtp", "u1").Return(nil)
	uc.On("SendVerificationOtp", "u2").Return(errors.New("failed to send otp: broker down"))

	w := doJSON(setupRouter(uc, "u1"), http.MethodPost, "/api/v1/auth/send-verification-otp", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(setupRouter(uc, "u2"), http.MethodPost, "/api/v1/auth/send-verification-otp", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "broker down")
}

func TestVerifyUser(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("VerifyUser", "u1", "123456").Return(nil)
	uc.On("VerifyUser", "u1", "000000").Return(usecase.ErrInvalidOtp)
	r := setupRouter(uc, "u1")

	w := doJSON(r, http.MethodPatch, "/api/v1/auth/verify-user", gin.H{"otp": "123456"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/v1/auth/verify-user", gin.H{"otp": "000000"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/v1/auth/verify-user", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNumberOfCalls(t, "VerifyUser", 2)
}

func TestResetPasswordFlow(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("SendResetPasswordOtp", "jane@example.com").Return(nil)
	uc.On("SendResetPasswordOtp", "ghost@example.com").Return(usecase.ErrUserNotFound)
	uc.On("ResetPassword", "jane@example.com", "654321", "brand-new-pass").Return(nil)
	r := setupRouter(uc, "")

	w := doJSON(r, http.MethodPost, "/api/v1/auth/send-reset-password-otp", gin.H{"email": "jane@example.com"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/api/v1/auth/send-reset-password-otp", gin.H{"email": "ghost@example.com"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(r, http.MethodPatch, "/api/v1/auth/reset-password", gin.H{
		"email":       "jane@example.com",
		"otp":         "654321",
		"newPassword": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMe(t *testing.T) {
	uc := new(MockAuthUseCase)
	uc.On("GetUser", "u1").Return(&entity.User{ID: "u1", Email: "jane@example.com"}, nil)

	w := doJSON(setupRouter(uc, "u1"), http.MethodGet, "/api/v1/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var user entity.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "jane@example.com", user.Email)

	w = doJSON(setupRouter(uc, ""), http.MethodGet, "/api/v1/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
