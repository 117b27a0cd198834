package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/web_store/internal/apperr"
	"github.com/Skotchmaster/web_store/internal/config"
	"github.com/Skotchmaster/web_store/internal/db"
	"github.com/Skotchmaster/web_store/internal/es"
	"github.com/Skotchmaster/web_store/internal/handlers"
	"github.com/Skotchmaster/web_store/internal/logging"
	authmw "github.com/Skotchmaster/web_store/internal/middleware/auth"
	"github.com/Skotchmaster/web_store/internal/middleware/csrf"
	loggingmw "github.com/Skotchmaster/web_store/internal/middleware/logging"
	"github.com/Skotchmaster/web_store/internal/mykafka"
	"github.com/Skotchmaster/web_store/internal/repo"
	"github.com/Skotchmaster/web_store/internal/service"
	httpserver "github.com/Skotchmaster/web_store/internal/transport/http"
)

const productIndex = "product"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(config.EnvDefault("LOG_LEVEL", "info"))

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers)
	} else {
		logger.Warn("KAFKA_BROKERS is empty, event publishing disabled")
	}

	users := &repo.Users{DB: database}
	refreshTokens := &repo.RefreshTokens{DB: database}
	products := &repo.Products{DB: database}
	orders := &repo.Orders{DB: database}
	inventory := &repo.Inventory{DB: database}

	authSvc := &service.AuthService{
		Users:         users,
		RefreshTokens: refreshTokens,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		AccessTTL:     cfg.AccessTTL,
		RefreshTTL:    cfg.RefreshTTL,
	}

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.Secure = cfg.Production()

	productHandler := &handlers.ProductHandler{
		Repo:     products,
		Producer: producer,
		Index:    productIndex,
	}

	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		client, err := es.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		productHandler.ES = client
		searchHandler = &handlers.SearchHandler{ES: client, Index: productIndex}
	} else {
		logger.Warn("ES_URL is empty, product search disabled")
	}

	deps := httpserver.Deps{
		Auth: &handlers.AuthHandler{
			Svc:           authSvc,
			Producer:      producer,
			CSRF:          csrfCfg,
			SecureCookies: cfg.Production(),
		},
		Products:  productHandler,
		Orders:    &handlers.OrderHandler{Repo: orders, Products: products, Producer: producer},
		Inventory: &handlers.InventoryHandler{Repo: inventory, Products: products},
		Search:    searchHandler,
		Guard:     authmw.NewGuard(users, cfg.JWTSecret),
		CSRF:      csrfCfg,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = apperr.HTTPErrorHandler(logger)
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
