package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"gohire/internal/domain/analytics"
)

type Handler func(ctx context.Context, event analytics.Event) error

type Consumer struct {
	channel *amqp.Channel
	queue   string
}

// Run consumes until ctx is done or the delivery channel closes.
func (c *Consumer) Run(ctx context.Context, handler Handler, logger *slog.Logger) error {
	deliveries, err := c.channel.Consume(
		c.queue,
		"",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}
	return Drain(ctx, deliveries, handler, logger)
}

func Drain(ctx context.Context, deliveries <-chan amqp.Delivery, handler Handler, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return nil
			}
			Process(ctx, d, handler, logger)
		}
	}
}

// Process handles one delivery. Malformed bodies and handler failures are
// logged and dropped without requeue.
func Process(ctx context.Context, d amqp.Delivery, handler Handler, logger *slog.Logger) {
	var event analytics.Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		logger.Warn("invalid event format", "routing_key", d.RoutingKey, "error", err)
		_ = d.Nack(false, false)
		return
	}
	if event.Name == "" {
		event.Name = d.RoutingKey
	}
	if err := handler(ctx, event); err != nil {
		logger.Error("event handler failed", "event", event.Name, "error", err)
		_ = d.Nack(false, false)
		return
	}
	_ = d.Ack(false)
}
