package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
)

type channelPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher sends analytics events to the exchange, routed by event name.
// It satisfies analytics.Repository so it can sit in an analytics.Fanout.
type Publisher struct {
	channel  channelPublisher
	exchange string
	timeout  time.Duration
}

func NewPublisher(channel channelPublisher, exchange string) *Publisher {
	return &Publisher{channel: channel, exchange: exchange, timeout: 5 * time.Second}
}

func (p *Publisher) Create(ctx context.Context, event analytics.Event) error {
	if event.ID.IsZero() {
		event.ID = common.NewUUID()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.channel.PublishWithContext(
		ctx,
		p.exchange,
		event.Name,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.ID.String(),
			Timestamp:    event.CreatedAt,
			Body:         body,
		},
	); err != nil {
		return fmt.Errorf("publish %s: %w", event.Name, err)
	}
	return nil
}
