package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bookstore/internal/domain/model"
	"bookstore/internal/infra/token"

	"github.com/labstack/echo/v4"
)

const (
	CtxUserIDKey   = "user_id"   // int64
	CtxUserRoleKey = "user_role" // string
)

var ErrUnauthenticated = errors.New("unauthenticated")

// リクエストを送ってきた利用者
type Identity struct {
	UserID int64
	Role   model.Role
}

// 利用者の特定方法を差し替えられるようにする
type UserResolver interface {
	ResolveActingUser(c echo.Context) (Identity, error)
}

type TokenParser interface {
	Parse(raw string) (token.Claims, error)
}

// Authorization: Bearer <jwt> から利用者を特定する
type BearerResolver struct {
	parser TokenParser
}

func NewBearerResolver(parser TokenParser) *BearerResolver {
	return &BearerResolver{parser: parser}
}

func (r *BearerResolver) ResolveActingUser(c echo.Context) (Identity, error) {
	//Authorizationヘッダを取得
	authz := c.Request().Header.Get(echo.HeaderAuthorization)
	if authz == "" {
		return Identity{}, ErrUnauthenticated
	}

	//Bearer形式か確認してtokenを抜く
	parts := strings.SplitN(authz, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return Identity{}, ErrUnauthenticated
	}
	raw := strings.TrimSpace(parts[1])
	if raw == "" {
		return Identity{}, ErrUnauthenticated
	}

	claims, err := r.parser.Parse(raw)
	if err != nil {
		return Identity{}, ErrUnauthenticated
	}
	return Identity{UserID: claims.UserID, Role: claims.Role}, nil
}

// 認証必須のルート用。user_idとroleをcontextに入れる。
func AuthJWT(resolver UserResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := resolver.ResolveActingUser(c)
			if err != nil || id.UserID <= 0 {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			c.Set(CtxUserIDKey, id.UserID)
			c.Set(CtxUserRoleKey, string(id.Role))

			return next(c)
		}
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
