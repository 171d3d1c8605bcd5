package queue

import (
	"context"
	"fmt"

	"event-booking/pkg/logger"
	"event-booking/pkg/notify"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Handler processes one decoded job.
type Handler func(ctx context.Context, job notify.Job) error

type ConsumerOption func(*Consumer)

// WithRejectHook is called for every delivery that fails to decode.
func WithRejectHook(fn func(err error)) ConsumerOption {
	return func(c *Consumer) {
		c.onReject = fn
	}
}

// Consumer reads envelopes from a single queue. A job is acked only after
// the handler succeeds; undecodable or failed jobs are dropped without requeue.
type Consumer struct {
	conn      Connection
	queueName string
	durable   bool
	logger    *logger.Logger
	onReject  func(err error)
}

func NewConsumer(conn Connection, queueName string, durable bool, log *logger.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		conn:      conn,
		queueName: queueName,
		durable:   durable,
		logger:    log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Consume blocks until ctx is canceled or the broker closes the delivery channel.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	ch, err := c.conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		c.queueName, // name
		c.durable,   // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", c.queueName, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("failed to set qos: %w", err)
	}

	msgs, err := ch.Consume(
		c.queueName, // queue
		"",          // consumer
		false,       // auto-ack
		false,       // exclusive
		false,       // no-local
		false,       // no-wait
		nil,         // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("[RABBITMQ] Started consuming from queue: %s (durable=%t)", c.queueName, c.durable)

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("[RABBITMQ] Stopped consuming from queue: %s", c.queueName)
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return ErrConsumerClosed
			}
			c.handleDelivery(ctx, msg, handler)
		}
	}
}

func (c *Consumer) handleDelivery(ctx context.Context, msg amqp.Delivery, handler Handler) {
	if v, ok := msg.Headers[notify.SchemaVersionHeader]; ok {
		c.logger.Debug("[RABBITMQ] Received delivery tag=%d schema_version=%v", msg.DeliveryTag, v)
	}

	job, err := notify.Decode(msg.Body)
	if err != nil {
		c.logger.Error("[RABBITMQ] Dropping undecodable job from queue=%s: %v, body=%s", c.queueName, err, string(msg.Body))
		if c.onReject != nil {
			c.onReject(err)
		}
		c.nack(msg)
		return
	}

	// Cancelling ctx stops the receive loop; a job already taken runs to completion
	if err := handler(context.WithoutCancel(ctx), job); err != nil {
		c.logger.Error("[RABBITMQ] Handler failed for pattern=%s: %v", job.Pattern(), err)
		c.nack(msg)
		return
	}

	if err := msg.Ack(false); err != nil {
		c.logger.Error("[RABBITMQ] Failed to ack pattern=%s: %v", job.Pattern(), err)
		return
	}
	c.logger.Info("[RABBITMQ] Processed and acknowledged pattern=%s", job.Pattern())
}

func (c *Consumer) nack(msg amqp.Delivery) {
	if err := msg.Nack(false, false); err != nil {
		c.logger.Error("[RABBITMQ] Failed to nack delivery tag=%d: %v", msg.DeliveryTag, err)
	}
}

// QueueLength returns the number of ready messages in the queue. A short-lived
// channel is used since a failed passive declare closes its channel.
func (c *Consumer) QueueLength() (int, error) {
	ch, err := c.conn.Channel()
	if err != nil {
		return 0, err
	}
	defer ch.Close()

	q, err := ch.QueueDeclarePassive(c.queueName, c.durable, false, false, false, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect queue %s: %w", c.queueName, err)
	}
	return q.Messages, nil
}

func (c *Consumer) Close() error {
	return c.conn.Close()
}
