package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/harvestbites/storefront/internal/auth"
	"github.com/harvestbites/storefront/internal/cart"
	"github.com/harvestbites/storefront/internal/catalog"
	"github.com/harvestbites/storefront/internal/checkout"
	"github.com/harvestbites/storefront/internal/config"
	"github.com/harvestbites/storefront/internal/events"
	"github.com/harvestbites/storefront/internal/handlers"
	appmw "github.com/harvestbites/storefront/internal/middleware"
	"github.com/harvestbites/storefront/internal/models"
	"github.com/harvestbites/storefront/internal/order"
	"github.com/harvestbites/storefront/internal/search"
	"github.com/harvestbites/storefront/internal/statestore"
	httpserver "github.com/harvestbites/storefront/internal/transport/http"
	"github.com/harvestbites/storefront/pkg/db"
	"github.com/harvestbites/storefront/pkg/logging"
	"github.com/harvestbites/storefront/pkg/orderclient"
	"github.com/harvestbites/storefront/pkg/postalpin"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	ctx := logging.IntoContext(context.Background(), logger)

	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	if err := gdb.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	catalogRepo := &catalog.GormRepo{DB: gdb}
	if err := catalogRepo.Seed(ctx, catalog.Products); err != nil {
		log.Fatalf("seed catalog: %v", err)
	}

	store := statestore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer store.Close()

	producer := events.NewProducer([]string{cfg.KafkaAddress})
	defer producer.Close()

	esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "error", err)
	} else if err := search.IndexProducts(ctx, esClient, search.ProductIndex, catalog.Products); err != nil {
		logger.Warn("catalog indexing failed", "error", err)
	}

	catalogSvc := &catalog.Service{Repo: catalogRepo}
	cartMgr := cart.NewManager(store)
	authSvc := &auth.Service{
		Repo:          &auth.GormRepo{DB: gdb},
		Store:         store,
		Producer:      producer,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
	}
	checkoutSvc := &checkout.Service{
		Store:   store,
		Pincode: postalpin.NewClient(cfg.PincodeAPIURL),
	}

	var mirror *orderclient.Client
	if cfg.OrderBackendURL != "" {
		mirror = orderclient.NewClient(cfg.OrderBackendURL)
	}
	orderSvc := &order.Service{
		Repo:     &order.GormRepo{DB: gdb},
		Store:    store,
		Gateway:  order.MockDelayed{},
		Tracker:  order.SynthesizedTracking{},
		Mirror:   mirror,
		Producer: producer,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(logging.IntoContext(req.Context(), logger)))
			return next(c)
		}
	})

	deps := httpserver.Deps{
		DB:              gdb,
		Auth:            &appmw.AuthMiddleware{JWTSecret: cfg.JWTSecret},
		ProductHandler:  &handlers.ProductHandler{Svc: catalogSvc},
		SearchHandler:   &handlers.SearchHandler{ES: esClient, Index: search.ProductIndex},
		AuthHandler:     &handlers.AuthHandler{Svc: authSvc},
		CartHandler:     &handlers.CartHandler{Cart: cartMgr, Catalog: catalogSvc},
		CheckoutHandler: &handlers.CheckoutHandler{Svc: checkoutSvc, Cart: cartMgr},
		OrderHandler:    &handlers.OrderHandler{Svc: orderSvc, Cart: cartMgr},
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
