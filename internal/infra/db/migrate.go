package db

import (
	"bookstore/internal/domain/model"

	"gorm.io/gorm"
)

// Migrate は全テーブルを作成/更新する。
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&model.User{},
		&model.Book{},
		&model.CartEntry{},
		&model.Order{},
		&model.OrderItem{},
		&model.InventoryAdjustment{},
	)
}
