package cli

import (
	"context"
	"fmt"

	"bookstore/internal/config"
	"bookstore/internal/handler"
	"bookstore/internal/infra/db"
	"bookstore/internal/infra/events"
	infraRepo "bookstore/internal/infra/repository"
	"bookstore/internal/infra/token"
	"bookstore/internal/logger"
	"bookstore/internal/metrics"
	"bookstore/internal/middleware"
	"bookstore/internal/server"
	"bookstore/internal/usecase"
	auth "bookstore/internal/usecase/auth_usecase"
	"bookstore/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// 設定・ロガー・DBまで
type base struct {
	cfg config.Config
	log zerolog.Logger
	db  *gorm.DB
}

func openBase() (*base, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log := logger.New(cfg)

	gdb, err := db.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return &base{cfg: cfg, log: log, db: gdb}, nil
}

func (b *base) Close() {
	if sqlDB, err := b.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// 依存を組み立ててechoを返す
func buildServer(b *base, reg prometheus.Registerer) (*echo.Echo, events.Publisher, error) {
	sqlDB, err := b.db.DB()
	if err != nil {
		return nil, nil, err
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(b.db)
	bookRepo := infraRepo.NewBookGormRepository(b.db)
	cartRepo := infraRepo.NewCartGormRepository(b.db)
	txm := infraRepo.NewTxManagerGorm(b.db)

	publisher, err := events.NewPublisher(b.cfg, b.log)
	if err != nil {
		return nil, nil, err
	}
	m := metrics.NewServerMetrics(reg)
	clock := usecase.SystemClock{}

	//auth
	jwtm := token.NewJWTManager(b.cfg.JWTSecret, b.cfg.JWTTTL)
	v := validator.NewAuthValidator(userRepo)
	registerUC := auth.NewRegisterUserUsecase(userRepo, v, auth.NewBcryptPasswords(0), clock)
	loginUC := auth.NewLoginUsecase(userRepo, v, auth.NewBcryptPasswords(0), jwtm, clock)

	//Usecase生成
	checkoutUC := usecase.NewCheckoutUsecase(txm, publisher, m, clock, b.log)
	orderUC := usecase.NewOrderUsecase(txm)
	cartUC := usecase.NewCartUsecase(cartRepo, bookRepo)
	bookUC := usecase.NewBookUsecase(txm, bookRepo)

	e := server.New(b.cfg, server.Deps{
		Log:      b.log,
		Metrics:  m,
		Resolver: middleware.NewBearerResolver(jwtm),
		Users:    userRepo,
		DB:       sqlDB,
		Auth:     handler.NewAuthHandler(registerUC, loginUC),
		Books:    handler.NewBookHandler(bookUC),
		Cart:     handler.NewCartHandler(cartUC),
		Orders:   handler.NewOrderHandler(checkoutUC, orderUC),
	})
	return e, publisher, nil
}

func migrate(ctx context.Context, b *base) error {
	if err := db.Migrate(b.db.WithContext(ctx)); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
