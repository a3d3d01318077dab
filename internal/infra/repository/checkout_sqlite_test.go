package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"

	"bookstore/internal/domain/model"
	"bookstore/internal/infra/db"
	infraRepo "bookstore/internal/infra/repository"
	repo "bookstore/internal/repository"
	"bookstore/internal/usecase"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := db.OpenSQLite(filepath.Join(t.TempDir(), "test.db"), nil)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))
	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return gdb
}

func insertBook(t *testing.T, gdb *gorm.DB, id int64, title string, price string, stock int64) {
	t.Helper()
	b := model.Book{
		ID:     id,
		Title:  title,
		Author: "author",
		Price:  decimal.RequireFromString(price),
		Stock:  stock,
	}
	require.NoError(t, gdb.Create(&b).Error)
}

func stockOf(t *testing.T, gdb *gorm.DB, id int64) int64 {
	t.Helper()
	var b model.Book
	require.NoError(t, gdb.First(&b, id).Error)
	return b.Stock
}

func countRows(t *testing.T, gdb *gorm.DB, m interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(m).Count(&n).Error)
	return n
}

func newCheckout(gdb *gorm.DB, tx repo.TransactionManager) *usecase.CheckoutUsecase {
	if tx == nil {
		tx = infraRepo.NewTxManagerGorm(gdb)
	}
	return usecase.NewCheckoutUsecase(tx, nil, nil, nil, zerolog.Nop())
}

// OrderItemsだけ失敗させる
type failingItemsTx struct {
	inner repo.TransactionManager
}

func (f failingItemsTx) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return f.inner.WithinTx(ctx, func(r repo.TxRepos) error {
		return fn(failingItemsRepos{TxRepos: r})
	})
}

type failingItemsRepos struct {
	repo.TxRepos
}

func (failingItemsRepos) OrderItems() repo.OrderItemRepository { return failingItems{} }

type failingItems struct{}

func (failingItems) CreateBulk(context.Context, int64, []model.OrderItem) error {
	return errors.New("disk full")
}

func (failingItems) ListByOrderID(context.Context, int64) ([]model.OrderItem, error) {
	return nil, nil
}

func TestBuyCart_SQLite_Success(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)

	cart := infraRepo.NewCartGormRepository(gdb)
	require.NoError(t, cart.UpsertEntry(ctx, 7, 101, 3))

	res, err := newCheckout(gdb, nil).BuyCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "32.97", res.Total.StringFixed(2))
	require.Len(t, res.Items, 1)
	assert.Equal(t, int64(3), res.Items[0].Quantity)

	assert.Equal(t, int64(2), stockOf(t, gdb, 101))

	lines, err := cart.ListLines(ctx, 7)
	require.NoError(t, err)
	assert.Empty(t, lines)

	var order model.Order
	require.NoError(t, gdb.First(&order, res.OrderID).Error)
	assert.Equal(t, int64(7), order.UserID)
	assert.Equal(t, "32.97", order.TotalPrice.StringFixed(2))

	items, err := infraRepo.NewOrderItemGormRepository(gdb).ListByOrderID(ctx, res.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "The Go Programming Language", items[0].TitleSnapshot)
	assert.Equal(t, "10.99", items[0].Price.StringFixed(2))
}

func TestBuyCart_SQLite_TwoBooks(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	insertBook(t, gdb, 102, "Learning Go", "20.00", 4)

	cart := infraRepo.NewCartGormRepository(gdb)
	require.NoError(t, cart.UpsertEntry(ctx, 7, 102, 3))
	require.NoError(t, cart.UpsertEntry(ctx, 7, 101, 2))

	res, err := newCheckout(gdb, nil).BuyCart(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "81.98", res.Total.StringFixed(2))
	require.Len(t, res.Items, 2)

	sum := decimal.Zero
	bought := map[int64]int64{}
	for _, it := range res.Items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
		bought[it.BookID] = it.Quantity
	}
	assert.True(t, sum.Equal(res.Total), "sum=%s total=%s", sum, res.Total)
	assert.Equal(t, map[int64]int64{101: 2, 102: 3}, bought)

	assert.Equal(t, int64(3), stockOf(t, gdb, 101))
	assert.Equal(t, int64(1), stockOf(t, gdb, 102))

	items, err := infraRepo.NewOrderItemGormRepository(gdb).ListByOrderID(ctx, res.OrderID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	itemSum := decimal.Zero
	for _, it := range items {
		itemSum = itemSum.Add(it.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}
	assert.Equal(t, "81.98", itemSum.StringFixed(2))
	assert.Equal(t, int64(0), countRows(t, gdb, &model.CartEntry{}))
}

// 注文後に価格や題名を変えても履歴は変わらない
func TestOrder_SQLite_SnapshotSurvivesBookEdit(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	txm := infraRepo.NewTxManagerGorm(gdb)

	res, err := newCheckout(gdb, txm).BuyNow(ctx, 7, usecase.BuyNowInput{BookID: 101, Quantity: 2})
	require.NoError(t, err)

	books := usecase.NewBookUsecase(txm, infraRepo.NewBookGormRepository(gdb))
	edited, err := books.EditBook(ctx, 1, 101, usecase.EditBookInput{
		Title:  "The Go Programming Language, 2nd ed.",
		Author: "author",
		Price:  decimal.RequireFromString("15.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "15.00", edited.Price.StringFixed(2))
	assert.Equal(t, int64(3), edited.Stock)

	detail, err := usecase.NewOrderUsecase(txm).GetMyOrderDetail(ctx, 7, res.OrderID)
	require.NoError(t, err)
	assert.Equal(t, "21.98", detail.TotalPrice.StringFixed(2))
	require.Len(t, detail.Items, 1)
	assert.Equal(t, "10.99", detail.Items[0].Price.StringFixed(2))
	assert.Equal(t, "The Go Programming Language", detail.Items[0].Title)
	assert.Equal(t, int64(2), detail.Items[0].Quantity)
}

func TestBuyNow_SQLite_InsufficientStock(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 103, "Concurrency in Go", "30.00", 1)

	_, err := newCheckout(gdb, nil).BuyNow(ctx, 9, usecase.BuyNowInput{BookID: 103, Quantity: 2})
	require.ErrorIs(t, err, usecase.ErrInsufficientStock)

	var se *usecase.InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, int64(1), se.Available)

	assert.Equal(t, int64(1), stockOf(t, gdb, 103))
	assert.Equal(t, int64(0), countRows(t, gdb, &model.Order{}))
}

func TestBuyNow_SQLite_RemovesCartEntry(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	insertBook(t, gdb, 102, "Learning Go", "20.00", 5)

	cart := infraRepo.NewCartGormRepository(gdb)
	require.NoError(t, cart.UpsertEntry(ctx, 7, 101, 1))
	require.NoError(t, cart.UpsertEntry(ctx, 7, 102, 1))

	res, err := newCheckout(gdb, nil).BuyNow(ctx, 7, usecase.BuyNowInput{BookID: 101, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, "21.98", res.Total.StringFixed(2))
	assert.Equal(t, int64(3), stockOf(t, gdb, 101))

	// 買った本だけカートから消える
	lines, err := cart.ListLines(ctx, 7)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, int64(102), lines[0].BookID)
}

func TestBuyCart_SQLite_OneShortLineRollsBackAll(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	insertBook(t, gdb, 103, "Concurrency in Go", "30.00", 1)

	cart := infraRepo.NewCartGormRepository(gdb)
	require.NoError(t, cart.UpsertEntry(ctx, 7, 101, 2))
	require.NoError(t, cart.UpsertEntry(ctx, 7, 103, 1))
	// 他の購入で在庫が減った
	require.NoError(t, gdb.Model(&model.Book{}).Where("id = ?", 103).Update("stock", 0).Error)

	_, err := newCheckout(gdb, nil).BuyCart(ctx, 7)
	require.ErrorIs(t, err, usecase.ErrInsufficientStock)

	assert.Equal(t, int64(5), stockOf(t, gdb, 101))
	assert.Equal(t, int64(0), stockOf(t, gdb, 103))
	assert.Equal(t, int64(2), countRows(t, gdb, &model.CartEntry{}))
	assert.Equal(t, int64(0), countRows(t, gdb, &model.Order{}))
}

func TestBuyCart_SQLite_WriteFailureRollsBack(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	insertBook(t, gdb, 102, "Learning Go", "20.00", 4)

	cart := infraRepo.NewCartGormRepository(gdb)
	require.NoError(t, cart.UpsertEntry(ctx, 7, 101, 3))
	require.NoError(t, cart.UpsertEntry(ctx, 7, 102, 1))

	tx := failingItemsTx{inner: infraRepo.NewTxManagerGorm(gdb)}
	_, err := newCheckout(gdb, tx).BuyCart(ctx, 7)
	require.ErrorIs(t, err, usecase.ErrTransactionFailed)

	assert.Equal(t, int64(5), stockOf(t, gdb, 101))
	assert.Equal(t, int64(4), stockOf(t, gdb, 102))
	assert.Equal(t, int64(2), countRows(t, gdb, &model.CartEntry{}))
	assert.Equal(t, int64(0), countRows(t, gdb, &model.Order{}))
	assert.Equal(t, int64(0), countRows(t, gdb, &model.OrderItem{}))
}

func TestBuyCart_SQLite_EmptyCart(t *testing.T) {
	gdb := openTestDB(t)

	_, err := newCheckout(gdb, nil).BuyCart(context.Background(), 7)
	assert.ErrorIs(t, err, usecase.ErrEmptyCart)
}

func TestBuyNow_SQLite_UnknownBook(t *testing.T) {
	gdb := openTestDB(t)

	_, err := newCheckout(gdb, nil).BuyNow(context.Background(), 7, usecase.BuyNowInput{BookID: 999, Quantity: 1})
	assert.ErrorIs(t, err, usecase.ErrBookNotFound)
}

func TestBuyNow_SQLite_ConcurrentNoOversell(t *testing.T) {
	gdb := openTestDB(t)
	ctx := context.Background()
	insertBook(t, gdb, 101, "The Go Programming Language", "10.99", 5)
	uc := newCheckout(gdb, nil)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		soldOut int
	)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(userID int64) {
			defer wg.Done()
			_, err := uc.BuyNow(ctx, userID, usecase.BuyNowInput{BookID: 101, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, usecase.ErrInsufficientStock):
				soldOut++
			}
		}(int64(i + 1))
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 5, soldOut)
	assert.Equal(t, int64(0), stockOf(t, gdb, 101))
	assert.Equal(t, int64(5), countRows(t, gdb, &model.Order{}))
}
