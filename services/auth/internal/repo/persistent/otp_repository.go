package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type OtpPurpose string

const (
	OtpPurposeVerify OtpPurpose = "verify"
	OtpPurposeReset  OtpPurpose = "reset"
)

var ErrOtpNotFound = errors.New("otp not found or expired")

// OtpRepository stores one pending OTP per purpose and subject, along with
// the number of wrong guesses made against it.
type OtpRepository interface {
	Save(ctx context.Context, purpose OtpPurpose, subject, otp string, ttl time.Duration) error
	Get(ctx context.Context, purpose OtpPurpose, subject string) (string, error)
	// RecordMiss counts a wrong guess and returns the total so far.
	RecordMiss(ctx context.Context, purpose OtpPurpose, subject string, ttl time.Duration) (int64, error)
	Delete(ctx context.Context, purpose OtpPurpose, subject string) error
}

type otpRepository struct {
	redisClient *redis.Client
}

func NewOtpRepository(redisClient *redis.Client) OtpRepository {
	return &otpRepository{redisClient: redisClient}
}

func otpKey(purpose OtpPurpose, subject string) string {
	return fmt.Sprintf("otp:%s:%s", purpose, subject)
}

func missesKey(purpose OtpPurpose, subject string) string {
	return fmt.Sprintf("otp_misses:%s:%s", purpose, subject)
}

// Save replaces any pending OTP and resets its miss counter.
func (r *otpRepository) Save(ctx context.Context, purpose OtpPurpose, subject, otp string, ttl time.Duration) error {
	pipe := r.redisClient.TxPipeline()
	pipe.Set(ctx, otpKey(purpose, subject), otp, ttl)
	pipe.Del(ctx, missesKey(purpose, subject))
	_, err := pipe.Exec(ctx)
	return err
}

func (r *otpRepository) Get(ctx context.Context, purpose OtpPurpose, subject string) (string, error) {
	otp, err := r.redisClient.Get(ctx, otpKey(purpose, subject)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrOtpNotFound
	}
	return otp, err
}

func (r *otpRepository) RecordMiss(ctx context.Context, purpose OtpPurpose, subject string, ttl time.Duration) (int64, error) {
	key := missesKey(purpose, subject)
	misses, err := r.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if misses == 1 {
		r.redisClient.Expire(ctx, key, ttl)
	}
	return misses, nil
}

func (r *otpRepository) Delete(ctx context.Context, purpose OtpPurpose, subject string) error {
	return r.redisClient.Del(ctx, otpKey(purpose, subject), missesKey(purpose, subject)).Err()
}
