package handler

import (
	"errors"
	"net/http"

	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/validator"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	registerUC *auth.RegisterUserUsecase // 会員登録usecase
	loginUC    *auth.LoginUsecase        // ログインusecase
}

// DIコンストラクタ
func NewAuthHandler(registerUC *auth.RegisterUserUsecase, loginUC *auth.LoginUsecase) *AuthHandler {
	return &AuthHandler{
		registerUC: registerUC,
		loginUC:    loginUC,
	}
}

// /user/register のリクエストボディ（旧クライアントのuseremail/userpasswordも受ける）
type registerRequest struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	UserEmail    string `json:"useremail"`
	Password     string `json:"password"`
	UserPassword string `json:"userpassword"`
}

// /user/login のリクエストボディ
type loginRequest struct {
	Email        string `json:"email"`
	UserEmail    string `json:"useremail"`
	Password     string `json:"password"`
	UserPassword string `json:"userpassword"`
}

func (h *AuthHandler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/user")
	g.POST("/register", h.register)
	g.POST("/login", h.login)
}

func (h *AuthHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Username: req.Username,
		Email:    firstNonEmpty(req.Email, req.UserEmail),
		Password: firstNonEmpty(req.Password, req.UserPassword),
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "please provide valid username, email and password (min 6 chars)"})
		case errors.Is(err, validator.ErrEmailAlreadyUsed), errors.Is(err, auth.ErrEmailAlreadyExists):
			return c.JSON(http.StatusConflict, ErrorResponse{Error: "user already exists"})
		default:
			return writeError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, out)
}

func (h *AuthHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    firstNonEmpty(req.Email, req.UserEmail),
		Password: firstNonEmpty(req.Password, req.UserPassword),
	})
	if err != nil {
		switch {
		case errors.Is(err, validator.ErrInvalidInput):
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "please provide both email and password"})
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
		case errors.Is(err, auth.ErrUserInactive):
			return c.JSON(http.StatusForbidden, ErrorResponse{Error: "user is inactive"})
		default:
			return writeError(c, err)
		}
	}

	return c.JSON(http.StatusOK, out)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
