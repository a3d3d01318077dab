package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/handler"
	"bookstore/internal/metrics"
	"bookstore/internal/middleware"
	"bookstore/internal/repository"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// /healthz用（*sql.DBが満たす）
type Pinger interface {
	PingContext(ctx context.Context) error
}

// サーバーが必要とする部品
type Deps struct {
	Log      zerolog.Logger
	Metrics  *metrics.ServerMetrics
	Resolver middleware.UserResolver
	Users    repository.UserRepository
	DB       Pinger

	Auth   *handler.AuthHandler
	Books  *handler.BookHandler
	Cart   *handler.CartHandler
	Orders *handler.OrderHandler
}

// echoを組み立てる
func New(cfg config.Config, d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	var obs middleware.RequestObserver
	if d.Metrics != nil {
		obs = d.Metrics
	}
	e.Use(middleware.RequestLogger(d.Log, obs))
	e.Use(echomw.Recover())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FEURL},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	RegisterRoutes(e, d)
	return e
}

// ctxが終わったらgracefulに止める
func Start(ctx context.Context, e *echo.Echo, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	}
}
