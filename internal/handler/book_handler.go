package handler

import (
	"net/http"

	"bookstore/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// 書籍の作成・更新の入力（priceは数値でも文字列でも可）
type BookRequest struct {
	Title  string          `json:"title"`
	Author string          `json:"author"`
	Image  string          `json:"image"`
	Price  decimal.Decimal `json:"price"`
	// 更新時は省略すると在庫を変えない
	Stock  *int64          `json:"stock"`
	Reason string          `json:"reason"`
}

// /books
type BookHandler struct {
	uc *usecase.BookUsecase
}

// DI
func NewBookHandler(uc *usecase.BookUsecase) *BookHandler {
	return &BookHandler{uc: uc}
}

func (h *BookHandler) RegisterRoutes(api *echo.Group, guards Guards) {
	g := api.Group("/books")

	g.GET("", h.list)
	g.GET("/:id", h.detail)
	g.GET("/title/:title", h.byTitle)
	g.GET("/author/:author", h.byAuthor)

	g.POST("", h.create, guards.Admin...)
	g.PUT("/:id", h.update, guards.Admin...)
}

func (h *BookHandler) list(c echo.Context) error {
	books, err := h.uc.ListBooks(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	b, err := h.uc.GetBook(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *BookHandler) byTitle(c echo.Context) error {
	books, err := h.uc.GetBooksByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) byAuthor(c echo.Context) error {
	books, err := h.uc.GetBooksByAuthor(c.Request().Context(), c.Param("author"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *BookHandler) create(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	var stock int64
	if req.Stock != nil {
		stock = *req.Stock
	}

	b, err := h.uc.AddBook(c.Request().Context(), adminID, usecase.AddBookInput{
		Title:  req.Title,
		Author: req.Author,
		Image:  req.Image,
		Price:  req.Price,
		Stock:  stock,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *BookHandler) update(c echo.Context) error {
	adminID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	b, err := h.uc.EditBook(c.Request().Context(), adminID, id, usecase.EditBookInput{
		Title:  req.Title,
		Author: req.Author,
		Image:  req.Image,
		Price:  req.Price,
		Stock:  req.Stock,
		Reason: req.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
