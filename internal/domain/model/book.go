package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 書籍（カタログ）
// stockを変えるのはcheckoutと管理者の編集だけ。
type Book struct {
	ID        int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string          `gorm:"type:varchar(150);not null;uniqueIndex" json:"title"`
	Author    string          `gorm:"type:varchar(100);not null;index" json:"author"`
	Image     string          `gorm:"type:varchar(150)" json:"image"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock     int64           `gorm:"not null" json:"stock"`
	CreatedAt time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
