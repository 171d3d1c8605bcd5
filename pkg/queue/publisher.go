package queue

import (
	"context"
	"fmt"
	"time"

	"event-booking/pkg/logger"
	"event-booking/pkg/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher places notification jobs on a named queue.
type Publisher interface {
	Publish(ctx context.Context, queueName string, job notify.Job) error
}

// RabbitMQPublisher dials a fresh connection for every Publish and tears it
// down afterwards. There is no retry.
type RabbitMQPublisher struct {
	url    string
	dial   Dialer
	logger *logger.Logger
}

func NewRabbitMQPublisher(url string, dial Dialer, log *logger.Logger) *RabbitMQPublisher {
	if dial == nil {
		dial = DialAMQP
	}
	return &RabbitMQPublisher{
		url:    url,
		dial:   dial,
		logger: log,
	}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, queueName string, job notify.Job) error {
	body, err := notify.Encode(job)
	if err != nil {
		p.logger.Error("[RABBITMQ] Refusing to publish invalid job to queue=%s: %v", queueName, err)
		return err
	}

	conn, err := p.dial(p.url)
	if err != nil {
		p.logger.Error("[RABBITMQ] Failed to connect to broker for pattern=%s: %v", job.Pattern(), err)
		return fmt.Errorf("failed to publish %s: %w", job.Pattern(), err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			p.logger.Warn("[RABBITMQ] Failed to close connection: %v", err)
		}
	}()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.Error("[RABBITMQ] Failed to open channel for pattern=%s: %v", job.Pattern(), err)
		return fmt.Errorf("failed to publish %s: %w", job.Pattern(), err)
	}
	defer func() {
		if err := ch.Close(); err != nil {
			p.logger.Warn("[RABBITMQ] Failed to close channel: %v", err)
		}
	}()

	err = ch.PublishWithContext(ctx,
		"",        // default exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Headers:     amqp.Table{notify.SchemaVersionHeader: int32(notify.SchemaVersion)},
			Body:        body,
			Timestamp:   time.Now(),
		},
	)
	if err != nil {
		p.logger.Error("[RABBITMQ] Failed to publish pattern=%s to queue=%s: %v", job.Pattern(), queueName, err)
		return fmt.Errorf("failed to publish %s: %w", job.Pattern(), err)
	}

	p.logger.Info("[RABBITMQ] Published pattern=%s to queue=%s (%d bytes)", job.Pattern(), queueName, len(body))
	return nil
}

type observedPublisher struct {
	next    Publisher
	observe func(pattern string, err error)
}

// Observe reports the outcome of every Publish on p to fn.
func Observe(p Publisher, fn func(pattern string, err error)) Publisher {
	return &observedPublisher{next: p, observe: fn}
}

func (p *observedPublisher) Publish(ctx context.Context, queueName string, job notify.Job) error {
	err := p.next.Publish(ctx, queueName, job)
	p.observe(string(job.Pattern()), err)
	return err
}
