package handler

import (
	"net/http"
	"strconv"

	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /order（購入と履歴）
type OrderHandler struct {
	checkout *usecase.CheckoutUsecase
	history  *usecase.OrderUsecase
}

func NewOrderHandler(checkout *usecase.CheckoutUsecase, history *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{checkout: checkout, history: history}
}

type BuyNowRequest struct {
	BookID int64 `json:"book_id"`
	// 省略時は1
	Quantity int64 `json:"quantity"`
}

type CheckoutResponse struct {
	Message string `json:"message"`
	usecase.CheckoutResult
}

func (h *OrderHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/order", guards.User...)

	g.POST("/buy-now", h.buyNow)
	g.POST("/buy-cart", h.buyCart)
	g.GET("/history", h.list)
	g.GET("/history/:id", h.detail)
}

func (h *OrderHandler) buyNow(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BuyNowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	res, err := h.checkout.BuyNow(c.Request().Context(), userID, usecase.BuyNowInput{
		BookID:   req.BookID,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeCheckoutError(c, err)
	}

	return c.JSON(http.StatusCreated, CheckoutResponse{Message: "order placed", CheckoutResult: res})
}

func (h *OrderHandler) buyCart(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	res, err := h.checkout.BuyCart(c.Request().Context(), userID)
	if err != nil {
		return writeCheckoutError(c, err)
	}

	return c.JSON(http.StatusCreated, CheckoutResponse{Message: "order placed", CheckoutResult: res})
}

func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	page, err := queryInt(c, "page")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
	}
	limit, err := queryInt(c, "limit")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
	}

	out, err := h.history.ListMyOrders(c.Request().Context(), userID, page, limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) detail(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.history.GetMyOrderDetail(c.Request().Context(), userID, orderID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// 無ければ0
func queryInt(c echo.Context, name string) (int, error) {
	v := c.QueryParam(name)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
