package repository

import (
	"context"
	"errors"

	"bookstore/internal/domain/model"
)

// 加算すると在庫を超える
var ErrStockExceeded = errors.New("stock exceeded")

type CartRepository interface {
	// booksとjoinした明細
	ListLines(ctx context.Context, userID int64) ([]model.CartLine, error)
	// 同上、book_id順に行ロックを取る
	ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error)
	FindEntry(ctx context.Context, userID int64, bookID int64) (model.CartEntry, error)
	// 同一書籍は数量加算
	UpsertEntry(ctx context.Context, userID int64, bookID int64, addQty int64) error
	UpdateQuantity(ctx context.Context, userID int64, bookID int64, qty int64) error
	// 無くてもエラーにしない
	DeleteEntry(ctx context.Context, userID int64, bookID int64) error
	Clear(ctx context.Context, userID int64) error
}
