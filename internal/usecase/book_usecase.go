package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"
	"bookstore/internal/validator"

	"github.com/shopspring/decimal"
)

// decimal(10,2)に入る上限
var maxPrice = decimal.New(1, 8)

type BookUsecase struct {
	tx       repo.TransactionManager
	bookRepo repo.BookRepository
}

// DI
func NewBookUsecase(tx repo.TransactionManager, bookRepo repo.BookRepository) *BookUsecase {
	return &BookUsecase{
		tx:       tx,
		bookRepo: bookRepo,
	}
}

func (u *BookUsecase) ListBooks(ctx context.Context) ([]model.Book, error) {
	books, err := u.bookRepo.List(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return books, nil
}

func (u *BookUsecase) GetBook(ctx context.Context, bookID int64) (model.Book, error) {
	if bookID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	b, err := u.bookRepo.FindByID(ctx, bookID)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Book{}, NewHTTPError(http.StatusNotFound, "book not found")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return b, nil
}

func (u *BookUsecase) GetBooksByTitle(ctx context.Context, title string) ([]model.Book, error) {
	return u.findMany(ctx, title, u.bookRepo.FindByTitle)
}

func (u *BookUsecase) GetBooksByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	return u.findMany(ctx, author, u.bookRepo.FindByAuthor)
}

// 0件は404
func (u *BookUsecase) findMany(ctx context.Context, key string, find func(context.Context, string) ([]model.Book, error)) ([]model.Book, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	books, err := find(ctx, key)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(books) == 0 {
		return nil, NewHTTPError(http.StatusNotFound, "no book found")
	}
	return books, nil
}

type AddBookInput struct {
	Title  string
	Author string
	Image  string
	Price  decimal.Decimal
	Stock  int64
}

// 管理者による書籍追加
func (u *BookUsecase) AddBook(ctx context.Context, adminUserID int64, in AddBookInput) (model.Book, error) {
	if adminUserID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	b, err := normalizeBook(in)
	if err != nil {
		return model.Book{}, err
	}
	if in.Stock < 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	b.Stock = in.Stock

	created, err := u.bookRepo.Create(ctx, b)
	if errors.Is(err, repo.ErrConflict) {
		return model.Book{}, NewHTTPError(http.StatusConflict, "book already exists")
	}
	if err != nil {
		return model.Book{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

type EditBookInput struct {
	Title  string
	Author string
	Image  string
	Price  decimal.Decimal
	// nilなら在庫は変えない
	Stock *int64
	// 在庫を変えるときの理由（空なら"admin edit"）
	Reason string
}

// 管理者による書籍更新。stockを指定したときだけ在庫を設定し、変わったら調整履歴も同じtxで残す。
func (u *BookUsecase) EditBook(ctx context.Context, adminUserID int64, bookID int64, in EditBookInput) (model.Book, error) {
	if adminUserID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	b, err := normalizeBook(AddBookInput{
		Title:  in.Title,
		Author: in.Author,
		Image:  in.Image,
		Price:  in.Price,
	})
	if err != nil {
		return model.Book{}, err
	}
	if in.Stock != nil && *in.Stock < 0 {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "stock must be >= 0")
	}
	b.ID = bookID

	reason := validator.SanitizeString(in.Reason, 255)
	if reason == "" {
		reason = "admin edit"
	}

	var out model.Book
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Books().FindByIDForUpdate(ctx, bookID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "book not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.Books().Update(ctx, b); err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewHTTPError(http.StatusConflict, "book already exists")
			}
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "book not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.Stock != nil {
			if err := r.Inventory().SetStockWithAdjustment(ctx, adminUserID, bookID, *in.Stock, reason); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		updated, err := r.Books().FindByID(ctx, bookID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = updated
		return nil
	})
	if err != nil {
		return model.Book{}, err
	}
	return out, nil
}

// 入力を整えてBookにする（stockは呼び出し側）
func normalizeBook(in AddBookInput) (model.Book, error) {
	title := validator.SanitizeString(in.Title, 150)
	author := validator.SanitizeString(in.Author, validator.MaxNameLen)
	if title == "" || author == "" {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "title and author required")
	}
	if in.Price.IsNegative() {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "price must be >= 0")
	}
	price := in.Price.Round(2)
	if price.GreaterThanOrEqual(maxPrice) {
		return model.Book{}, NewHTTPError(http.StatusBadRequest, "price too large")
	}

	return model.Book{
		Title:  title,
		Author: author,
		Image:  validator.SanitizeString(in.Image, 150),
		Price:  price,
	}, nil
}
