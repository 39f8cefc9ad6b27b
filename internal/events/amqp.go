package events

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Connection owns the AMQP connection and channel shared by the publisher
// and the consumer of one process.
type Connection struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// Dial connects and declares the durable topic exchange domain events are
// published to.
func Dial(url, exchange string) (*Connection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to amqp: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // kind
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // args
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &Connection{conn: conn, channel: ch, exchange: exchange}, nil
}

func (c *Connection) Publisher() *Publisher {
	return NewPublisher(c.channel, c.exchange)
}

// Consumer declares a durable queue bound to the given routing keys.
func (c *Connection) Consumer(queue string, keys []string) (*Consumer, error) {
	q, err := c.channel.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue %s: %w", queue, err)
	}
	for _, key := range keys {
		if err := c.channel.QueueBind(q.Name, key, c.exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind %s to %s: %w", key, q.Name, err)
		}
	}
	return &Consumer{channel: c.channel, queue: q.Name}, nil
}

func (c *Connection) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
