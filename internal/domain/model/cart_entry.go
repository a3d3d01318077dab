package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// カートの1行。(user_id, book_id)で一意。
type CartEntry struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_book" json:"user_id"`
	BookID    int64     `gorm:"not null;uniqueIndex:idx_cart_user_book;index" json:"book_id"`
	Quantity  int64     `gorm:"not null;default:1" json:"quantity"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// cart_entriesとbooksをjoinした読み取り用
type CartLine struct {
	BookID   int64           `json:"book_id"`
	Title    string          `json:"title"`
	Author   string          `json:"author"`
	Image    string          `json:"image"`
	Price    decimal.Decimal `json:"price"`
	Stock    int64           `json:"stock"`
	Quantity int64           `json:"quantity"`
}

// 行の小計
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(l.Quantity))
}
