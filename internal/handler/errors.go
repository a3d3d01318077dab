package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"bookstore/internal/middleware"
	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// 認証が必要なルートにかけるmiddleware
type Guards struct {
	User  []echo.MiddlewareFunc
	Admin []echo.MiddlewareFunc
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	zerolog.Ctx(c.Request().Context()).Error().Err(err).Msg("unhandled error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// checkoutの失敗種別をHTTPに
func writeCheckoutError(c echo.Context, err error) error {
	var se *usecase.InsufficientStockError
	switch {
	case errors.As(err, &se):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: fmt.Sprintf("insufficient stock for book %d", se.BookID)})
	case errors.Is(err, usecase.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	case errors.Is(err, usecase.ErrBookNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "book not found"})
	case errors.Is(err, usecase.ErrInsufficientStock):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "insufficient stock"})
	case errors.Is(err, usecase.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart is empty"})
	default:
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "transaction failed"})
	}
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	id, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

// パスパラメータを正の整数として読む
func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
