package server

import (
	"net/http"

	"bookstore/internal/handler"
	"bookstore/internal/middleware"

	"github.com/labstack/echo/v4"
)

const apiPrefix = "/bookstore/api"

func RegisterRoutes(e *echo.Echo, d Deps) {
	e.GET("/healthz", healthz(d.DB))
	if d.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(d.Metrics.Handler()))
	}

	user := []echo.MiddlewareFunc{
		middleware.AuthJWT(d.Resolver),
		middleware.ActiveUserGuard(d.Users),
	}
	guards := handler.Guards{
		User:  user,
		Admin: append(append([]echo.MiddlewareFunc{}, user...), middleware.AdminRoleGuard()),
	}

	api := e.Group(apiPrefix)
	d.Auth.RegisterRoutes(api)
	d.Books.RegisterRoutes(api, guards)
	d.Cart.RegisterRoutes(api, guards)
	d.Orders.RegisterRoutes(api, guards)
}

func healthz(db Pinger) echo.HandlerFunc {
	return func(c echo.Context) error {
		if db != nil {
			if err := db.PingContext(c.Request().Context()); err != nil {
				return c.JSON(http.StatusServiceUnavailable, handler.ErrorResponse{Error: "database unavailable"})
			}
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	}
}
