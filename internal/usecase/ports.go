package usecase

import (
	"context"
	"time"

	"bookstore/internal/domain/model"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// 注文確定イベントの送信先（rabbit / kafka / noop）
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error
}

// checkoutの結果を数える（prometheus）
type CheckoutObserver interface {
	ObserveCheckout(mode model.CheckoutMode, outcome string)
}

type nopObserver struct{}

func (nopObserver) ObserveCheckout(model.CheckoutMode, string) {}
