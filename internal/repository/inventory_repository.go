package repository

import "context"

type InventoryRepository interface {
	// 在庫が足りるときだけ減算（同時実行でも売り越さない）
	DecreaseStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error)

	// 在庫の現在値を設定し、調整履歴を残す
	SetStockWithAdjustment(ctx context.Context, adminUserID int64, bookID int64, newStock int64, reason string) error
}
