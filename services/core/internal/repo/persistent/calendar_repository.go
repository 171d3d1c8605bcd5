package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-booking/pkg/cache"

	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
)

var (
	ErrStateNotFound        = errors.New("oauth state not found or expired")
	ErrCalendarNotConnected = errors.New("google calendar not connected")
)

// CalendarRepository keeps the OAuth handshake state and each user's
// Google token in redis.
type CalendarRepository interface {
	SaveState(ctx context.Context, state, userID string, ttl time.Duration) error
	TakeState(ctx context.Context, state string) (string, error)
	SaveToken(ctx context.Context, userID string, token *oauth2.Token) error
	GetToken(ctx context.Context, userID string) (*oauth2.Token, error)
	DeleteToken(ctx context.Context, userID string) error
}

type calendarRepository struct {
	client *redis.Client
}

func NewCalendarRepository(client *redis.Client) CalendarRepository {
	return &calendarRepository{client: client}
}

func stateKey(state string) string {
	return fmt.Sprintf("gcal:state:%s", state)
}

func tokenKey(userID string) string {
	return fmt.Sprintf("gcal:token:%s", userID)
}

func (r *calendarRepository) SaveState(ctx context.Context, state, userID string, ttl time.Duration) error {
	return r.client.Set(ctx, stateKey(state), userID, ttl).Err()
}

// TakeState returns the user the state was issued to. A state is single use.
func (r *calendarRepository) TakeState(ctx context.Context, state string) (string, error) {
	userID, err := r.client.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrStateNotFound
	}
	if err != nil {
		return "", err
	}
	return userID, nil
}

func (r *calendarRepository) SaveToken(ctx context.Context, userID string, token *oauth2.Token) error {
	return cache.SetJSON(ctx, r.client, tokenKey(userID), token, 0)
}

func (r *calendarRepository) GetToken(ctx context.Context, userID string) (*oauth2.Token, error) {
	var token oauth2.Token
	if err := cache.GetJSON(ctx, r.client, tokenKey(userID), &token); err != nil {
		if errors.Is(err, cache.ErrMiss) {
			return nil, ErrCalendarNotConnected
		}
		return nil, err
	}
	return &token, nil
}

func (r *calendarRepository) DeleteToken(ctx context.Context, userID string) error {
	return r.client.Del(ctx, tokenKey(userID)).Err()
}
