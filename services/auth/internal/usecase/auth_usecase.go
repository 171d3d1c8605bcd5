package usecase

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"event-booking/pkg/jwt"
	"event-booking/pkg/logger"
	"event-booking/pkg/notify"
	"event-booking/pkg/queue"
	"event-booking/services/auth/internal/entity"
	"event-booking/services/auth/internal/repo/persistent"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// MaxOtpAttempts is the number of wrong guesses that burns a pending OTP.
const MaxOtpAttempts = 5

var (
	ErrUserExists          = errors.New("user already exists")
	ErrUserNotFound        = errors.New("user does not exist")
	ErrIncorrectPassword   = errors.New("incorrect password")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidOtp          = errors.New("invalid or expired otp")
	ErrAlreadyVerified     = errors.New("user already verified")
	ErrForbidden           = errors.New("you can only change your own password")
)

type AuthUseCase interface {
	Register(ctx context.Context, email, password string) (*entity.User, error)
	Login(ctx context.Context, email, password string) (*entity.User, *entity.TokenPair, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (string, error)
	ChangePassword(ctx context.Context, callerID, userID, oldPassword, newPassword string) error
	SendVerificationOtp(ctx context.Context, userID string) error
	VerifyUser(ctx context.Context, userID, otp string) error
	SendResetPasswordOtp(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, otp, newPassword string) error
	GetUser(ctx context.Context, userID string) (*entity.User, error)
}

type authUseCase struct {
	userRepo   persistent.UserRepository
	otpRepo    persistent.OtpRepository
	jwtService *jwt.Service
	publisher  queue.Publisher
	queueName  string
	otpTTL     time.Duration
	logger     *logger.Logger
}

func NewAuthUseCase(
	userRepo persistent.UserRepository,
	otpRepo persistent.OtpRepository,
	jwtService *jwt.Service,
	publisher queue.Publisher,
	queueName string,
	otpTTL time.Duration,
	logger *logger.Logger,
) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtService: jwtService,
		publisher:  publisher,
		queueName:  queueName,
		otpTTL:     otpTTL,
		logger:     logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, email, password string) (*entity.User, error) {
	email = normalizeEmail(email)

	if _, err := uc.userRepo.GetByEmail(email); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, persistent.ErrUserNotFound) {
		uc.logger.Error("Failed to look up user %s: %v", email, err)
		return nil, fmt.Errorf("failed to process registration: %w", err)
	}

	hashedPassword, err := hashPassword(password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, fmt.Errorf("failed to process registration: %w", err)
	}

	user := &entity.User{
		Email:    email,
		Password: hashedPassword,
	}
	if err := uc.userRepo.Create(user); err != nil {
		if errors.Is(err, persistent.ErrDuplicateUser) {
			return nil, ErrUserExists
		}
		uc.logger.Error("Failed to create user: %v", err)
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	uc.logger.Info("User registered: id=%s", user.ID)
	return user, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, *entity.TokenPair, error) {
	user, err := uc.lookupByEmail(email)
	if err != nil {
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrIncorrectPassword
	}

	accessToken, err := uc.jwtService.GenerateAccessToken(user.ID, user.Email, entity.RoleUser)
	if err != nil {
		uc.logger.Error("Failed to generate access token: %v", err)
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refreshToken, err := uc.jwtService.GenerateRefreshToken(user.ID, user.Email, entity.RoleUser)
	if err != nil {
		uc.logger.Error("Failed to generate refresh token: %v", err)
		return nil, nil, fmt.Errorf("failed to generate token: %w", err)
	}

	if err := uc.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		uc.logger.Error("Failed to store refresh token for user %s: %v", user.ID, err)
		return nil, nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	user.RefreshToken = refreshToken

	return user, &entity.TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// RefreshAccessToken accepts only the refresh token most recently issued to the user.
func (uc *authUseCase) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := uc.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	user, err := uc.lookupByID(claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", err
	}
	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(refreshToken)) != 1 {
		return "", ErrInvalidRefreshToken
	}

	accessToken, err := uc.jwtService.GenerateAccessToken(user.ID, user.Email, entity.RoleUser)
	if err != nil {
		uc.logger.Error("Failed to generate access token: %v", err)
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return accessToken, nil
}

func (uc *authUseCase) ChangePassword(ctx context.Context, callerID, userID, oldPassword, newPassword string) error {
	if callerID != userID {
		return ErrForbidden
	}

	user, err := uc.lookupByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return ErrIncorrectPassword
	}

	return uc.setPassword(user.ID, newPassword)
}

func (uc *authUseCase) SendVerificationOtp(ctx context.Context, userID string) error {
	user, err := uc.lookupByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	return uc.issueOtp(ctx, persistent.OtpPurposeVerify, user.ID, user.Email)
}

func (uc *authUseCase) VerifyUser(ctx context.Context, userID, otp string) error {
	user, err := uc.lookupByID(userID)
	if err != nil {
		return err
	}
	if user.IsVerified {
		return ErrAlreadyVerified
	}

	if err := uc.checkOtp(ctx, persistent.OtpPurposeVerify, user.ID, otp); err != nil {
		return err
	}

	if err := uc.userRepo.MarkVerified(user.ID); err != nil {
		uc.logger.Error("Failed to mark user %s verified: %v", user.ID, err)
		return fmt.Errorf("failed to verify user: %w", err)
	}

	uc.deleteOtp(ctx, persistent.OtpPurposeVerify, user.ID)
	return nil
}

func (uc *authUseCase) SendResetPasswordOtp(ctx context.Context, email string) error {
	user, err := uc.lookupByEmail(email)
	if err != nil {
		return err
	}

	return uc.issueOtp(ctx, persistent.OtpPurposeReset, user.Email, user.Email)
}

func (uc *authUseCase) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	user, err := uc.lookupByEmail(email)
	if err != nil {
		return err
	}

	if err := uc.checkOtp(ctx, persistent.OtpPurposeReset, user.Email, otp); err != nil {
		return err
	}

	if err := uc.setPassword(user.ID, newPassword); err != nil {
		return err
	}

	// Sessions issued before the reset must not survive it
	if err := uc.userRepo.UpdateRefreshToken(user.ID, ""); err != nil {
		uc.logger.Warn("Failed to revoke refresh token for user %s: %v", user.ID, err)
	}

	uc.deleteOtp(ctx, persistent.OtpPurposeReset, user.Email)
	return nil
}

func (uc *authUseCase) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	return uc.lookupByID(userID)
}

// issueOtp stores a fresh OTP and publishes it. A publish failure fails the call.
func (uc *authUseCase) issueOtp(ctx context.Context, purpose persistent.OtpPurpose, subject, email string) error {
	otp, err := generateOtp()
	if err != nil {
		uc.logger.Error("Failed to generate otp: %v", err)
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	if err := uc.otpRepo.Save(ctx, purpose, subject, otp, uc.otpTTL); err != nil {
		uc.logger.Error("Failed to store %s otp: %v", purpose, err)
		return fmt.Errorf("failed to store otp: %w", err)
	}

	uc.logger.Info("[NOTIFICATION QUEUE] Publishing %s otp for %s", purpose, email)
	if err := uc.publisher.Publish(ctx, uc.queueName, notify.OtpPayload{To: email, Otp: otp}); err != nil {
		return fmt.Errorf("failed to send otp: %w", err)
	}
	return nil
}

func (uc *authUseCase) checkOtp(ctx context.Context, purpose persistent.OtpPurpose, subject, otp string) error {
	stored, err := uc.otpRepo.Get(ctx, purpose, subject)
	if err != nil {
		if errors.Is(err, persistent.ErrOtpNotFound) {
			return ErrInvalidOtp
		}
		uc.logger.Error("Failed to read %s otp: %v", purpose, err)
		return fmt.Errorf("failed to read otp: %w", err)
	}
	if subtle.ConstantTimeCompare([]byte(stored), []byte(otp)) != 1 {
		uc.recordMiss(ctx, purpose, subject)
		return ErrInvalidOtp
	}
	return nil
}

func (uc *authUseCase) recordMiss(ctx context.Context, purpose persistent.OtpPurpose, subject string) {
	misses, err := uc.otpRepo.RecordMiss(ctx, purpose, subject, uc.otpTTL)
	if err != nil {
		// Without a counter the OTP cannot be guarded, so drop it
		uc.logger.Error("Failed to count %s otp miss: %v", purpose, err)
		uc.deleteOtp(ctx, purpose, subject)
		return
	}
	if misses >= MaxOtpAttempts {
		uc.logger.Warn("Too many wrong %s otp guesses for %s, otp revoked", purpose, subject)
		uc.deleteOtp(ctx, purpose, subject)
	}
}

func (uc *authUseCase) deleteOtp(ctx context.Context, purpose persistent.OtpPurpose, subject string) {
	if err := uc.otpRepo.Delete(ctx, purpose, subject); err != nil {
		uc.logger.Warn("Failed to delete %s otp: %v", purpose, err)
	}
}

func (uc *authUseCase) setPassword(userID, password string) error {
	hashedPassword, err := hashPassword(password)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return fmt.Errorf("failed to hash password: %w", err)
	}
	if err := uc.userRepo.UpdatePassword(userID, hashedPassword); err != nil {
		uc.logger.Error("Failed to update password for user %s: %v", userID, err)
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

func (uc *authUseCase) lookupByID(userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, persistent.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (uc *authUseCase) lookupByEmail(email string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, persistent.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOtp returns a random six digit code.
func generateOtp() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
