package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gohire/internal/common"
	"gohire/internal/domain/analytics"
)

type recordingChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
	err      error
}

func (c *recordingChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	c.exchange = exchange
	c.key = key
	c.msg = msg
	return c.err
}

type recordingAcker struct {
	acked  int
	nacked int
}

func (a *recordingAcker) Ack(uint64, bool) error        { a.acked++; return nil }
func (a *recordingAcker) Nack(uint64, bool, bool) error { a.nacked++; return nil }
func (a *recordingAcker) Reject(uint64, bool) error     { a.nacked++; return nil }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPublisherRoutesByEventName(t *testing.T) {
	ch := &recordingChannel{}
	publisher := NewPublisher(ch, "gohire.events")
	userID := common.UUID("user-1")

	err := publisher.Create(context.Background(), analytics.Event{Name: "contract.accepted", UserID: &userID, Payload: map[string]string{"contract_id": "c1"}})
	require.NoError(t, err)

	assert.Equal(t, "gohire.events", ch.exchange)
	assert.Equal(t, "contract.accepted", ch.key)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	var decoded analytics.Event
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, "c1", decoded.Payload["contract_id"])
	assert.False(t, decoded.ID.IsZero())
}

func TestPublisherWrapsChannelError(t *testing.T) {
	publisher := NewPublisher(&recordingChannel{err: errors.New("closed")}, "x")
	assert.Error(t, publisher.Create(context.Background(), analytics.Event{Name: "a"}))
}

func TestProcessAcksHandledAndDropsBad(t *testing.T) {
	acker := &recordingAcker{}
	var handled []string
	handler := func(_ context.Context, e analytics.Event) error {
		handled = append(handled, e.Name)
		if e.Name == "boom" {
			return errors.New("fail")
		}
		return nil
	}

	Process(context.Background(), amqp.Delivery{Acknowledger: acker, RoutingKey: "contract.created", Body: []byte(`{"payload":{"contract_id":"c1"}}`)}, handler, quietLogger())
	Process(context.Background(), amqp.Delivery{Acknowledger: acker, Body: []byte(`not json`)}, handler, quietLogger())
	Process(context.Background(), amqp.Delivery{Acknowledger: acker, Body: []byte(`{"name":"boom"}`)}, handler, quietLogger())

	assert.Equal(t, []string{"contract.created", "boom"}, handled)
	assert.Equal(t, 1, acker.acked)
	assert.Equal(t, 2, acker.nacked)
}

func TestDrainStopsWhenChannelCloses(t *testing.T) {
	deliveries := make(chan amqp.Delivery, 1)
	deliveries <- amqp.Delivery{Acknowledger: &recordingAcker{}, Body: []byte(`{"name":"a"}`)}
	close(deliveries)

	count := 0
	err := Drain(context.Background(), deliveries, func(context.Context, analytics.Event) error { count++; return nil }, quietLogger())
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}
