package persistent

import (
	"context"
	"encoding/json"
	"fmt"

	"event-booking/services/notification/internal/entity"

	"github.com/redis/go-redis/v9"
)

const (
	deliveriesKey = "notifications:deliveries"
	// MaxDeliveries bounds the history list.
	MaxDeliveries = 500
)

// DeliveryRepository keeps a bounded, newest-first history of sends.
type DeliveryRepository interface {
	Record(ctx context.Context, delivery *entity.Delivery) error
	Recent(ctx context.Context, limit int) ([]*entity.Delivery, error)
}

type deliveryRepository struct {
	redisClient *redis.Client
}

func NewDeliveryRepository(redisClient *redis.Client) DeliveryRepository {
	return &deliveryRepository{redisClient: redisClient}
}

func (r *deliveryRepository) Record(ctx context.Context, delivery *entity.Delivery) error {
	data, err := json.Marshal(delivery)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}

	pipe := r.redisClient.TxPipeline()
	pipe.LPush(ctx, deliveriesKey, data)
	pipe.LTrim(ctx, deliveriesKey, 0, MaxDeliveries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record delivery: %w", err)
	}
	return nil
}

func (r *deliveryRepository) Recent(ctx context.Context, limit int) ([]*entity.Delivery, error) {
	if limit <= 0 || limit > MaxDeliveries {
		limit = MaxDeliveries
	}

	items, err := r.redisClient.LRange(ctx, deliveriesKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read deliveries: %w", err)
	}

	deliveries := make([]*entity.Delivery, 0, len(items))
	for _, item := range items {
		var d entity.Delivery
		if err := json.Unmarshal([]byte(item), &d); err != nil {
			continue
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, nil
}
