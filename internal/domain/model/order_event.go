package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckoutMode string

const (
	CheckoutModeBuyNow  CheckoutMode = "buy_now"
	CheckoutModeBuyCart CheckoutMode = "buy_cart"
)

// コミット後に外部へ流す注文確定イベント
type OrderPlacedEvent struct {
	EventID    string           `json:"event_id"`
	OrderID    int64            `json:"order_id"`
	UserID     int64            `json:"user_id"`
	Mode       CheckoutMode     `json:"mode"`
	Total      decimal.Decimal  `json:"total"`
	Items      []OrderEventItem `json:"items"`
	OccurredAt time.Time        `json:"occurred_at"`
}

type OrderEventItem struct {
	BookID   int64           `json:"book_id"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}
