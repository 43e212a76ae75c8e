package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/game-topup-store/internal/queue"
)

// EventPublisher delivers order events.  Failures are reported to the
// caller, which treats publishing as best effort.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.OrderEvent) error
}

// NopPublisher drops every event.  It is used when the broker is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.OrderEvent) error { return nil }

// AMQPPublisher sends each event as a persistent JSON message to the durable
// queue named after the event type, using the default exchange.  A
// connection is dialled per event; order traffic is low enough that a
// pooled channel is not worth the reconnect handling.
type AMQPPublisher struct {
	url string
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{url: url} }

// defaultDialTimeout bounds the broker dial when ctx carries no deadline.
const defaultDialTimeout = 3 * time.Second

func (p *AMQPPublisher) Publish(ctx context.Context, ev queue.OrderEvent) error {
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(ev.Type, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare %s failed: %v", ev.Type, err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", ev.Type, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish %s failed: %v", ev.Type, err)
		return err
	}
	return nil
}

// dialTimeout returns the time left before ctx expires, capped at
// defaultDialTimeout, or ctx.Err() when it already has.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	d, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(d)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	if left > defaultDialTimeout {
		left = defaultDialTimeout
	}
	return left, nil
}
