package queue

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
)

// fakeBroker is an in-memory stand-in for RabbitMQ's default exchange.
type fakeBroker struct {
	mu         sync.Mutex
	queues     map[string]chan amqp.Delivery
	declared   map[string]bool
	acks       []uint64
	nacks      []uint64
	requeued   []bool
	nextTag    uint64
	dialErr    error
	channelErr error
	publishErr error
	dials      int
	closedConn int
	closedChan int
}

func newFakeBroker() *fakeBroker {
	return &fakeBroker{
		queues:   make(map[string]chan amqp.Delivery),
		declared: make(map[string]bool),
	}
}

func (b *fakeBroker) queue(name string) chan amqp.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	q, ok := b.queues[name]
	if !ok {
		q = make(chan amqp.Delivery, 16)
		b.queues[name] = q
	}
	return q
}

func (b *fakeBroker) dial(string) (Connection, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dials++
	if b.dialErr != nil {
		return nil, b.dialErr
	}
	return &fakeConn{broker: b}, nil
}

func (b *fakeBroker) Ack(tag uint64, multiple bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.acks = append(b.acks, tag)
	return nil
}

func (b *fakeBroker) Nack(tag uint64, multiple, requeue bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nacks = append(b.nacks, tag)
	b.requeued = append(b.requeued, requeue)
	return nil
}

func (b *fakeBroker) Reject(tag uint64, requeue bool) error {
	return b.Nack(tag, false, requeue)
}

func (b *fakeBroker) snapshot() (acks, nacks []uint64, requeued []bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]uint64(nil), b.acks...), append([]uint64(nil), b.nacks...), append([]bool(nil), b.requeued...)
}

// push enqueues a raw body as if another producer had sent it.
func (b *fakeBroker) push(queueName string, body []byte) {
	b.mu.Lock()
	b.nextTag++
	tag := b.nextTag
	b.mu.Unlock()
	b.queue(queueName) <- amqp.Delivery{Acknowledger: b, DeliveryTag: tag, Body: body}
}

type fakeConn struct {
	broker *fakeBroker
}

func (c *fakeConn) Channel() (Channel, error) {
	if c.broker.channelErr != nil {
		return nil, c.broker.channelErr
	}
	return &fakeChannel{broker: c.broker}, nil
}

func (c *fakeConn) Close() error {
	c.broker.mu.Lock()
	defer c.broker.mu.Unlock()
	c.broker.closedConn++
	return nil
}

type fakeChannel struct {
	broker *fakeBroker
}

func (ch *fakeChannel) PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if ch.broker.publishErr != nil {
		return ch.broker.publishErr
	}
	if exchange != "" {
		return errors.New("only the default exchange is supported")
	}
	ch.broker.mu.Lock()
	ch.broker.nextTag++
	tag := ch.broker.nextTag
	ch.broker.mu.Unlock()

	ch.broker.queue(key) <- amqp.Delivery{
		Acknowledger: ch.broker,
		DeliveryTag:  tag,
		ContentType:  msg.ContentType,
		Headers:      msg.Headers,
		Body:         msg.Body,
	}
	return nil
}

func (ch *fakeChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ch.broker.mu.Lock()
	ch.broker.declared[name] = durable
	ch.broker.mu.Unlock()
	return amqp.Queue{Name: name}, nil
}

func (ch *fakeChannel) QueueDeclarePassive(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	ch.broker.mu.Lock()
	_, ok := ch.broker.declared[name]
	ch.broker.mu.Unlock()
	if !ok {
		return amqp.Queue{}, errors.New("NOT_FOUND")
	}
	return amqp.Queue{Name: name, Messages: len(ch.broker.queue(name))}, nil
}

func (ch *fakeChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	return ch.broker.queue(queue), nil
}

func (ch *fakeChannel) Qos(prefetchCount, prefetchSize int, global bool) error {
	return nil
}

func (ch *fakeChannel) Close() error {
	ch.broker.mu.Lock()
	defer ch.broker.mu.Unlock()
	ch.broker.closedChan++
	return nil
}
