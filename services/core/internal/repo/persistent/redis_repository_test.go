package persistent

import (
	"context"
	"testing"
	"time"

	"event-booking/pkg/cache"
	"event-booking/services/core/internal/entity"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestEventCache(t *testing.T) {
	mr, client := newRedis(t)
	c := NewEventCache(client, 0)
	ctx := context.Background()

	_, err := c.Get(ctx, "e1")
	assert.ErrorIs(t, err, cache.ErrMiss)

	event := &entity.Event{
		ID:        "e1",
		Title:     "Go Meetup",
		Date:      time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		SeatPrice: decimal.RequireFromString("12.50"),
	}
	require.NoError(t, c.Set(ctx, event))
	assert.Equal(t, EventCacheTTL, mr.TTL("event:e1"))

	cached, err := c.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Go Meetup", cached.Title)
	assert.True(t, cached.SeatPrice.Equal(event.SeatPrice))
	assert.True(t, cached.Date.Equal(event.Date))

	require.NoError(t, c.Invalidate(ctx, "e1"))
	require.NoError(t, c.Invalidate(ctx, "e1"))
	_, err = c.Get(ctx, "e1")
	assert.ErrorIs(t, err, cache.ErrMiss)
}

func TestCalendarRepository_State(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCalendarRepository(client)
	ctx := context.Background()

	require.NoError(t, repo.SaveState(ctx, "nonce", "user-1", 10*time.Minute))

	userID, err := repo.TakeState(ctx, "nonce")
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	_, err = repo.TakeState(ctx, "nonce")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, repo.SaveState(ctx, "short", "user-1", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err = repo.TakeState(ctx, "short")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestCalendarRepository_Token(t *testing.T) {
	_, client := newRedis(t)
	repo := NewCalendarRepository(client)
	ctx := context.Background()

	_, err := repo.GetToken(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCalendarNotConnected)

	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}
	require.NoError(t, repo.SaveToken(ctx, "user-1", token))

	stored, err := repo.GetToken(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "access", stored.AccessToken)
	assert.Equal(t, "refresh", stored.RefreshToken)

	require.NoError(t, repo.DeleteToken(ctx, "user-1"))
	_, err = repo.GetToken(ctx, "user-1")
	assert.ErrorIs(t, err, ErrCalendarNotConnected)
}
