package usecase

import (
	"context"
	"errors"
	"time"

	"bookstore/internal/domain/model"
	repo "bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// CheckoutUsecase は購入（今すぐ購入 / カート一括購入）を1トランザクションで行う。
// 在庫減算・カート削除・注文作成は全部成功するか、全部無かったことになる。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	events   OrderEventPublisher
	observer CheckoutObserver
	clock    Clock
	log      zerolog.Logger
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	events OrderEventPublisher,
	observer CheckoutObserver,
	clock Clock,
	log zerolog.Logger,
) *CheckoutUsecase {
	if observer == nil {
		observer = nopObserver{}
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &CheckoutUsecase{
		tx:       tx,
		events:   events,
		observer: observer,
		clock:    clock,
		log:      log,
	}
}

type BuyNowInput struct {
	BookID int64
	// 0なら1
	Quantity int64
}

type CheckoutItemOutput struct {
	BookID   int64           `json:"book_id"`
	Title    string          `json:"title"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

type CheckoutResult struct {
	OrderID int64                `json:"order_id"`
	Total   decimal.Decimal      `json:"total"`
	Items   []CheckoutItemOutput `json:"items"`
}

// BuyNow は1冊（数量指定）を購入する。
func (u *CheckoutUsecase) BuyNow(ctx context.Context, userID int64, in BuyNowInput) (CheckoutResult, error) {
	res, err := u.buyNow(ctx, userID, in)
	u.finish(ctx, model.CheckoutModeBuyNow, userID, res, err)
	return res, err
}

func (u *CheckoutUsecase) buyNow(ctx context.Context, userID int64, in BuyNowInput) (CheckoutResult, error) {
	qty := in.Quantity
	if qty == 0 {
		qty = 1
	}
	if userID <= 0 || in.BookID <= 0 || qty < 0 {
		return CheckoutResult{}, ErrInvalidInput
	}

	var out CheckoutResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		book, err := r.Books().FindByIDForUpdate(ctx, in.BookID)
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBookNotFound
		}
		if err != nil {
			return txFailed(err)
		}

		if book.Stock < qty {
			return &InsufficientStockError{BookID: book.ID, Requested: qty, Available: book.Stock}
		}

		//条件付き減算（別txに先を越されたらfalse）
		ok, err := r.Inventory().DecreaseStockIfEnough(ctx, book.ID, qty)
		if err != nil {
			return txFailed(err)
		}
		if !ok {
			return &InsufficientStockError{BookID: book.ID, Requested: qty, Available: book.Stock}
		}

		if err := r.Cart().DeleteEntry(ctx, userID, book.ID); err != nil {
			return txFailed(err)
		}

		line := model.CartLine{
			BookID:   book.ID,
			Title:    book.Title,
			Price:    book.Price,
			Stock:    book.Stock,
			Quantity: qty,
		}
		res, err := u.placeOrder(ctx, r, userID, []model.CartLine{line})
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return CheckoutResult{}, txFailed(err)
	}
	return out, nil
}

// BuyCart はカートの中身を全部購入する。
// 全行の在庫チェックを先に済ませてから減算するので、1行でも足りなければ何も変わらない。
func (u *CheckoutUsecase) BuyCart(ctx context.Context, userID int64) (CheckoutResult, error) {
	res, err := u.buyCart(ctx, userID)
	u.finish(ctx, model.CheckoutModeBuyCart, userID, res, err)
	return res, err
}

func (u *CheckoutUsecase) buyCart(ctx context.Context, userID int64) (CheckoutResult, error) {
	if userID <= 0 {
		return CheckoutResult{}, ErrInvalidInput
	}

	var out CheckoutResult

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines, err := r.Cart().ListLinesForUpdate(ctx, userID)
		if err != nil {
			return txFailed(err)
		}
		if len(lines) == 0 {
			return ErrEmptyCart
		}

		//先に全行チェック
		for _, l := range lines {
			if l.Stock < l.Quantity {
				return &InsufficientStockError{BookID: l.BookID, Requested: l.Quantity, Available: l.Stock}
			}
		}

		//減算
		for _, l := range lines {
			ok, err := r.Inventory().DecreaseStockIfEnough(ctx, l.BookID, l.Quantity)
			if err != nil {
				return txFailed(err)
			}
			if !ok {
				return &InsufficientStockError{BookID: l.BookID, Requested: l.Quantity, Available: l.Stock}
			}
		}

		if err := r.Cart().Clear(ctx, userID); err != nil {
			return txFailed(err)
		}

		res, err := u.placeOrder(ctx, r, userID, lines)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	if err != nil {
		return CheckoutResult{}, txFailed(err)
	}
	return out, nil
}

// 注文ヘッダと明細を作る（tx内で呼ぶ）
func (u *CheckoutUsecase) placeOrder(ctx context.Context, r repo.TxRepos, userID int64, lines []model.CartLine) (CheckoutResult, error) {
	now := u.clock.Now()

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(lines))
	outItems := make([]CheckoutItemOutput, 0, len(lines))
	for _, l := range lines {
		total = total.Add(l.Subtotal())

		//購入時点の価格をスナップショット
		items = append(items, model.OrderItem{
			BookID:        l.BookID,
			TitleSnapshot: l.Title,
			Quantity:      l.Quantity,
			Price:         l.Price,
			CreatedAt:     now,
		})
		outItems = append(outItems, CheckoutItemOutput{
			BookID:   l.BookID,
			Title:    l.Title,
			Quantity: l.Quantity,
			Price:    l.Price,
		})
	}

	orderID, err := r.Orders().Create(ctx, model.Order{
		UserID:     userID,
		TotalPrice: total,
		CreatedAt:  now,
	})
	if err != nil {
		return CheckoutResult{}, txFailed(err)
	}

	if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
		return CheckoutResult{}, txFailed(err)
	}

	return CheckoutResult{OrderID: orderID, Total: total, Items: outItems}, nil
}

// コミット後の処理（メトリクス・ログ・イベント）
func (u *CheckoutUsecase) finish(ctx context.Context, mode model.CheckoutMode, userID int64, res CheckoutResult, err error) {
	u.observer.ObserveCheckout(mode, checkoutOutcome(err))

	if err != nil {
		if errors.Is(err, ErrTransactionFailed) {
			u.log.Error().Err(err).Str("mode", string(mode)).Int64("user_id", userID).Msg("checkout rolled back")
		}
		return
	}

	u.log.Info().
		Str("mode", string(mode)).
		Int64("user_id", userID).
		Int64("order_id", res.OrderID).
		Str("total", res.Total.StringFixed(2)).
		Msg("order placed")

	if u.events == nil {
		return
	}

	evt := model.OrderPlacedEvent{
		EventID:    uuid.NewString(),
		OrderID:    res.OrderID,
		UserID:     userID,
		Mode:       mode,
		Total:      res.Total,
		Items:      make([]model.OrderEventItem, 0, len(res.Items)),
		OccurredAt: u.clock.Now().UTC().Truncate(time.Millisecond),
	}
	for _, it := range res.Items {
		evt.Items = append(evt.Items, model.OrderEventItem{BookID: it.BookID, Quantity: it.Quantity, Price: it.Price})
	}

	//注文は確定済みなので失敗してもログだけ
	if perr := u.events.PublishOrderPlaced(ctx, evt); perr != nil {
		u.log.Warn().Err(perr).Int64("order_id", res.OrderID).Msg("order event publish failed")
	}
}
