package repository

import (
	"context"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookGormRepository struct {
	db *gorm.DB
}

// DI
func NewBookGormRepository(db *gorm.DB) *BookGormRepository {
	return &BookGormRepository{db: db}
}

// 全件（id順）
func (r *BookGormRepository) List(ctx context.Context) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// IDで書籍を取得
func (r *BookGormRepository) FindByID(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return model.Book{}, translateErr(err)
	}
	return b, nil
}

// 行ロックを取って取得（sqliteではロック句は無視される）
func (r *BookGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	var b model.Book
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, id).Error
	if err != nil {
		return model.Book{}, translateErr(err)
	}
	return b, nil
}

func (r *BookGormRepository) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	return r.findBy(ctx, "title = ?", title)
}

func (r *BookGormRepository) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return r.findBy(ctx, "author = ?", author)
}

func (r *BookGormRepository) findBy(ctx context.Context, cond string, arg string) ([]model.Book, error) {
	var books []model.Book
	if err := r.db.WithContext(ctx).Where(cond, arg).Order("id asc").Find(&books).Error; err != nil {
		return []model.Book{}, err
	}
	return books, nil
}

// 書籍の作成（タイトル重複はErrConflict）
func (r *BookGormRepository) Create(ctx context.Context, b model.Book) (model.Book, error) {
	if err := r.db.WithContext(ctx).Create(&b).Error; err != nil {
		return model.Book{}, translateErr(err)
	}
	return b, nil
}

// 書籍の更新。stockはInventoryRepository経由でだけ変える。
func (r *BookGormRepository) Update(ctx context.Context, b model.Book) error {
	res := r.db.WithContext(ctx).Model(&model.Book{}).Where("id = ?", b.ID).Updates(map[string]interface{}{
		"title":  b.Title,
		"author": b.Author,
		"image":  b.Image,
		"price":  b.Price,
	})
	if res.Error != nil {
		return translateErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
