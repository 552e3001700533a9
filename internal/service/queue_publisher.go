// Package service provides the RabbitMQ publisher for domain events.
// Publishing is best effort: errors are logged and returned so callers can
// ignore them without interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"

	"github.com/iliyamo/shop-backend/internal/queue"
)

// defaultDialTimeout bounds the connection handshake when the caller's
// context carries no deadline.
const defaultDialTimeout = 5 * time.Second

// QueuePublisher publishes events to RabbitMQ, dialing a fresh connection
// per message.
type QueuePublisher struct {
	url string
	log zerolog.Logger
}

func NewQueuePublisher(url string, log zerolog.Logger) *QueuePublisher {
	return &QueuePublisher{url: url, log: log}
}

// PublishOrderCreated publishes ev to the order.created queue as a
// persistent JSON message.
func (p *QueuePublisher) PublishOrderCreated(ctx context.Context, ev queue.OrderCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error().Err(err).Msg("rabbitmq: marshal event failed")
		return err
	}

	timeout, err := dialTimeout(ctx)
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: publish skipped")
		return err
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: dial failed")
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: channel open failed")
		return err
	}
	defer func() { _ = ch.Close() }()

	// Idempotent; durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(queue.OrderCreatedQueue, true, false, false, false, nil); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: queue declare failed")
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	// Default exchange, routing key = queue name.
	if err := ch.PublishWithContext(ctx, "", queue.OrderCreatedQueue, false, false, pub); err != nil {
		p.log.Warn().Err(err).Msg("rabbitmq: publish failed")
		return err
	}
	return nil
}

// dialTimeout derives the TCP and AMQP handshake budget from ctx so a
// blackholed broker cannot hold the caller past its deadline.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return left, nil
}
