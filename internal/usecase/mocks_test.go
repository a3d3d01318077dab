package usecase

import (
	"context"
	"sync"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type BookRepoMock struct{ mock.Mock }

func (m *BookRepoMock) List(ctx context.Context) ([]model.Book, error) {
	args := m.Called(ctx)
	b, _ := args.Get(0).([]model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindByID(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindByTitle(ctx context.Context, title string) ([]model.Book, error) {
	args := m.Called(ctx, title)
	b, _ := args.Get(0).([]model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindByAuthor(ctx context.Context, author string) ([]model.Book, error) {
	args := m.Called(ctx, author)
	b, _ := args.Get(0).([]model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Book)
	return created, args.Error(1)
}

func (m *BookRepoMock) Update(ctx context.Context, b model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) DecreaseStockIfEnough(ctx context.Context, bookID int64, qty int64) (bool, error) {
	args := m.Called(ctx, bookID, qty)
	return args.Bool(0), args.Error(1)
}

func (m *InventoryRepoMock) SetStockWithAdjustment(ctx context.Context, adminUserID int64, bookID int64, newStock int64, reason string) error {
	args := m.Called(ctx, adminUserID, bookID, newStock, reason)
	return args.Error(0)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) ListLines(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.CartLine)
	return l, args.Error(1)
}

func (m *CartRepoMock) ListLinesForUpdate(ctx context.Context, userID int64) ([]model.CartLine, error) {
	args := m.Called(ctx, userID)
	l, _ := args.Get(0).([]model.CartLine)
	return l, args.Error(1)
}

func (m *CartRepoMock) FindEntry(ctx context.Context, userID int64, bookID int64) (model.CartEntry, error) {
	args := m.Called(ctx, userID, bookID)
	e, _ := args.Get(0).(model.CartEntry)
	return e, args.Error(1)
}

func (m *CartRepoMock) UpsertEntry(ctx context.Context, userID int64, bookID int64, addQty int64) error {
	args := m.Called(ctx, userID, bookID, addQty)
	return args.Error(0)
}

func (m *CartRepoMock) UpdateQuantity(ctx context.Context, userID int64, bookID int64, qty int64) error {
	args := m.Called(ctx, userID, bookID, qty)
	return args.Error(0)
}

func (m *CartRepoMock) DeleteEntry(ctx context.Context, userID int64, bookID int64) error {
	args := m.Called(ctx, userID, bookID)
	return args.Error(0)
}

func (m *CartRepoMock) Clear(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	o, _ := args.Get(0).([]model.Order)
	return o, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

// fnをそのまま呼ぶだけのTransactionManager（rollbackしたかだけ覚える）
type txStub struct {
	books      *BookRepoMock
	inventory  *InventoryRepoMock
	cart       *CartRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock

	rolledBack bool
}

func newTxStub() *txStub {
	return &txStub{
		books:      new(BookRepoMock),
		inventory:  new(InventoryRepoMock),
		cart:       new(CartRepoMock),
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
	}
}

func (s *txStub) Books() repo.BookRepository           { return s.books }
func (s *txStub) Inventory() repo.InventoryRepository  { return s.inventory }
func (s *txStub) Cart() repo.CartRepository            { return s.cart }
func (s *txStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txStub) OrderItems() repo.OrderItemRepository { return s.orderItems }

func (s *txStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	err := fn(s)
	s.rolledBack = err != nil
	return err
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishOrderPlaced(ctx context.Context, evt model.OrderPlacedEvent) error {
	args := m.Called(ctx, evt)
	return args.Error(0)
}

type observerRecorder struct {
	mu   sync.Mutex
	seen []string
}

func (o *observerRecorder) ObserveCheckout(mode model.CheckoutMode, outcome string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, string(mode)+":"+outcome)
}
