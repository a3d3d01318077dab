package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Priceは購入時点の価格（カタログの価格が変わっても動かない）
type OrderItem struct {
	ID            int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       int64           `gorm:"not null;index" json:"order_id"`
	BookID        int64           `gorm:"not null;index" json:"book_id"`
	TitleSnapshot string          `gorm:"type:varchar(150);not null" json:"title_snapshot"`
	Quantity      int64           `gorm:"not null" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	CreatedAt     time.Time       `gorm:"not null" json:"created_at"`
}
