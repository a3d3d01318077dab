package usecase

import (
	"errors"
	"fmt"
)

// checkoutの失敗種別。errors.Isで判定する。
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrBookNotFound      = errors.New("book not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrTransactionFailed = errors.New("transaction failed")
)

// 在庫不足。どの書籍が足りないかを持つ。
type InsufficientStockError struct {
	BookID    int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for book %d (requested %d, available %d)", e.BookID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// DBエラーなどをTransactionFailedに包む。種別の決まったエラーはそのまま。
func txFailed(err error) error {
	if err == nil {
		return nil
	}
	if isCheckoutKind(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransactionFailed, err)
}

func isCheckoutKind(err error) bool {
	return errors.Is(err, ErrInvalidInput) ||
		errors.Is(err, ErrBookNotFound) ||
		errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrTransactionFailed)
}

// メトリクス用のラベル
func checkoutOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrBookNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	default:
		return "tx_failed"
	}
}
