package events

import (
	"context"
	"encoding/json"
	"fmt"

	"bookstore/internal/config"
	"bookstore/internal/domain/model"

	"github.com/rs/zerolog"
)

// routing key / イベント種別
const OrderPlacedKey = "order.placed"

// 注文確定イベントの送信先
type Publisher interface {
	PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error
	Close() error
}

// EVENT_BROKERに応じてPublisherを作る
func NewPublisher(cfg config.Config, log zerolog.Logger) (Publisher, error) {
	switch cfg.EventBroker {
	case config.BrokerRabbit:
		p, err := NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			return nil, fmt.Errorf("rabbit: %w", err)
		}
		log.Info().Str("exchange", cfg.RabbitExchange).Msg("order events -> rabbitmq")
		return p, nil
	case config.BrokerKafka:
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("order events -> kafka")
		return NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic), nil
	case config.BrokerNone, "":
		return NewNoopPublisher(log), nil
	default:
		return nil, fmt.Errorf("unknown event broker %q", cfg.EventBroker)
	}
}

func encode(evt model.OrderPlacedEvent) ([]byte, error) {
	return json.Marshal(evt)
}

// ブローカー無しのときはログに出すだけ
type NoopPublisher struct {
	log zerolog.Logger
}

func NewNoopPublisher(log zerolog.Logger) *NoopPublisher {
	return &NoopPublisher{log: log}
}

func (p *NoopPublisher) PublishOrderPlaced(_ context.Context, evt model.OrderPlacedEvent) error {
	p.log.Debug().Str("event_id", evt.EventID).Int64("order_id", evt.OrderID).Msg(OrderPlacedKey)
	return nil
}

func (p *NoopPublisher) Close() error { return nil }
