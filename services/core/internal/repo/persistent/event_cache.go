package persistent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"event-booking/pkg/cache"
	"event-booking/services/core/internal/entity"

	"github.com/redis/go-redis/v9"
)

const EventCacheTTL = time.Hour

// EventCache is a read-through cache of single events.
type EventCache interface {
	Get(ctx context.Context, id string) (*entity.Event, error)
	Set(ctx context.Context, event *entity.Event) error
	Invalidate(ctx context.Context, id string) error
}

type eventCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewEventCache(client *redis.Client, ttl time.Duration) EventCache {
	if ttl <= 0 {
		ttl = EventCacheTTL
	}
	return &eventCache{client: client, ttl: ttl}
}

func eventKey(id string) string {
	return fmt.Sprintf("event:%s", id)
}

// Get returns cache.ErrMiss when the event is not cached.
func (c *eventCache) Get(ctx context.Context, id string) (*entity.Event, error) {
	var event entity.Event
	if err := cache.GetJSON(ctx, c.client, eventKey(id), &event); err != nil {
		return nil, err
	}
	return &event, nil
}

func (c *eventCache) Set(ctx context.Context, event *entity.Event) error {
	return cache.SetJSON(ctx, c.client, eventKey(event.ID), event, c.ttl)
}

func (c *eventCache) Invalidate(ctx context.Context, id string) error {
	if err := c.client.Del(ctx, eventKey(id)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
