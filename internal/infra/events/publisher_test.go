package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() model.OrderPlacedEvent {
	return model.OrderPlacedEvent{
		EventID:    "e-1",
		OrderID:    12,
		UserID:     7,
		Mode:       model.CheckoutModeBuyCart,
		Total:      decimal.RequireFromString("32.97"),
		Items:      []model.OrderEventItem{{BookID: 101, Quantity: 3, Price: decimal.RequireFromString("10.99")}},
		OccurredAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_KeyAndBody(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{w: w}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), sampleEvent()))
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "12", string(w.msgs[0].Key))

	var got map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, "32.97", got["total"])
	assert.Equal(t, "buy_cart", got["mode"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

type fakeChannel struct {
	exchange string
	key      string
	msg      amqp.Publishing
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange, f.key, f.msg = exchange, key, msg
	return nil
}

func (f *fakeChannel) Close() error { return nil }

func TestRabbitPublisher_Publish(t *testing.T) {
	ch := &fakeChannel{}
	p := &RabbitPublisher{ch: ch, exchange: "bookstore_events"}

	require.NoError(t, p.PublishOrderPlaced(context.Background(), sampleEvent()))
	assert.Equal(t, "bookstore_events", ch.exchange)
	assert.Equal(t, OrderPlacedKey, ch.key)
	assert.Equal(t, "e-1", ch.msg.MessageId)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Contains(t, string(ch.msg.Body), `"order_id":12`)
	require.NoError(t, p.Close())
}

func TestNewPublisher_Selection(t *testing.T) {
	p, err := NewPublisher(config.Config{EventBroker: config.BrokerNone}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &NoopPublisher{}, p)
	assert.NoError(t, p.PublishOrderPlaced(context.Background(), sampleEvent()))

	p, err = NewPublisher(config.Config{EventBroker: config.BrokerKafka, KafkaBrokers: []string{"localhost:9092"}, KafkaTopic: "t"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	require.NoError(t, p.Close())

	_, err = NewPublisher(config.Config{EventBroker: "sqs"}, zerolog.Nop())
	assert.Error(t, err)
}
