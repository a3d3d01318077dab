package repository

import (
	"context"
	"errors"

	"bookstore/internal/domain/model"
)

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反
	ErrConflict = errors.New("conflict")
)

// 書籍の永続化（保存・取得）だけを約束。
type BookRepository interface {
	List(ctx context.Context) ([]model.Book, error)
	FindByID(ctx context.Context, id int64) (model.Book, error)
	// 行ロック付き（checkout用）
	FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error)
	FindByTitle(ctx context.Context, title string) ([]model.Book, error)
	FindByAuthor(ctx context.Context, author string) ([]model.Book, error)

	Create(ctx context.Context, b model.Book) (model.Book, error)
	Update(ctx context.Context, b model.Book) error
}
