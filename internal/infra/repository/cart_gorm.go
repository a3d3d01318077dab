package repository

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

// カート明細（booksとjoin）
func (r *CartGormRepository) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.listLines(ctx, userID, false)
}

// checkout用。book_id順にロックを取るのでデッドロックしにくい
func (r *CartGormRepository) ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error) {
	return r.listLines(ctx, userID, true)
}

func (r *CartGormRepository) listLines(ctx context.Context, userID int64, lock bool) ([]model.CartLine, error) {
	q := r.db.WithContext(ctx).
		Table("cart_entries").
		Select("cart_entries.book_id, books.title, books.author, books.image, books.price, books.stock, cart_entries.quantity").
		Joins("JOIN books ON books.id = cart_entries.book_id").
		Where("cart_entries.user_id = ?", userID).
		Order("cart_entries.book_id asc")
	if lock {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var lines []model.CartLine
	if err := q.Scan(&lines).Error; err != nil {
		return []model.CartLine{}, err
	}
	if lines == nil {
		lines = []model.CartLine{}
	}
	return lines, nil
}

// 1行取得
func (r *CartGormRepository) FindEntry(ctx context.Context, userID int64, bookID int64) (model.CartEntry, error) {
	var e model.CartEntry

	err := r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		First(&e).Error
	if err != nil {
		return model.CartEntry{}, translateErr(err)
	}
	return e, nil
}

// 同一書籍は数量加算（同時追加でも一意制約で1行に収まる）
func (r *CartGormRepository) UpsertEntry(ctx context.Context, userID int64, bookID int64, addQty int64) error {
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	now := time.Now()
	entry := model.CartEntry{
		UserID:    userID,
		BookID:    bookID,
		Quantity:  addQty,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 加算後に在庫を超える場合は更新しない
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "book_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"quantity":   gorm.Expr("cart_entries.quantity + excluded.quantity"),
				"updated_at": now,
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				gorm.Expr("excluded.quantity <= (SELECT books.stock FROM books WHERE books.id = excluded.book_id) - cart_entries.quantity"),
			}},
		}).
		Create(&entry)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrStockExceeded
	}
	return nil
}

// 数量を上書き
func (r *CartGormRepository) UpdateQuantity(ctx context.Context, userID int64, bookID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartEntry{}).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 1行削除。無くてもnil
func (r *CartGormRepository) DeleteEntry(ctx context.Context, userID int64, bookID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&model.CartEntry{}).Error
}

// ユーザーのカートを全削除
func (r *CartGormRepository) Clear(ctx context.Context, userID int64) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartEntry{}).Error
}
