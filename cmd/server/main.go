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
	"github.com/labstack/echo/v4/middleware"

	"github.com/monbijou/storefront/internal/cart"
	"github.com/monbijou/storefront/internal/config"
	"github.com/monbijou/storefront/internal/es"
	"github.com/monbijou/storefront/internal/events"
	"github.com/monbijou/storefront/internal/handlers"
	"github.com/monbijou/storefront/internal/jobs"
	"github.com/monbijou/storefront/internal/logging"
	"github.com/monbijou/storefront/internal/mailer"
	"github.com/monbijou/storefront/internal/service/orders"
	"github.com/monbijou/storefront/internal/service/search"
	"github.com/monbijou/storefront/internal/service/token"
	httpserver "github.com/monbijou/storefront/internal/transport/http"
)

func main() {
	configuration, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(configuration.LOG_LEVEL)

	db, err := config.InitDB(configuration)
	if err != nil {
		log.Fatalf("database init error: %v", err)
	}

	jwtSecret := []byte(configuration.JWT_SECRET)
	refreshSecret := []byte(configuration.REFRESH_SECRET)

	var prod *events.Producer
	if configuration.KAFKA_ADDRESS != "" {
		prod = events.NewProducer([]string{configuration.KAFKA_ADDRESS})
	} else {
		logger.Warn("KAFKA_ADDRESS not set, event publishing disabled")
	}

	searchClient, err := es.NewClient(configuration)
	if err != nil {
		logger.Warn("elasticsearch unavailable, search disabled", "err", err)
		searchClient = nil
	}

	var cartStore cart.Store
	if configuration.REDIS_ADDR != "" {
		redisClient, err := cart.NewRedisClient(configuration.REDIS_ADDR, configuration.REDIS_PASSWORD, configuration.REDIS_DB)
		if err != nil {
			log.Fatalf("redis init error: %v", err)
		}
		cartStore = cart.NewRedisStore(redisClient)
	} else {
		logger.Warn("REDIS_ADDR not set, carts held in memory")
		cartStore = cart.NewMemoryStore()
	}

	mail := mailer.New(configuration.SENDGRID_KEY, configuration.MAIL_FROM_NAME, configuration.MAIL_FROM_ADDR)
	if mail == nil {
		logger.Warn("SENDGRID_API_KEY not set, transactional mail disabled")
	}

	orderSvc := &orders.Service{DB: db}
	tokenSvc := &token.TokenService{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret}

	cronRunner := jobs.Start(db, logger)

	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())

	deps := httpserver.Deps{
		DB:              db,
		AuthHandler:     &handlers.AuthHandler{DB: db, JWTSecret: jwtSecret, RefreshSecret: refreshSecret, Producer: prod},
		ProductHandler:  &handlers.ProductHandler{DB: db, Producer: prod, ES: searchClient, ESIndex: search.DefaultIndex},
		CategoryHandler: &handlers.CategoryHandler{DB: db},
		CartHandler:     &handlers.CartHandler{DB: db, Store: cartStore, Producer: prod},
		OrderHandler:    &handlers.OrderHandler{Svc: orderSvc, Producer: prod, Mailer: mail, CartStore: cartStore},
		HireHandler:     &handlers.HireHandler{Svc: orderSvc, Producer: prod, Mailer: mail},
		ReviewHandler:   &handlers.ReviewHandler{DB: db},
		WishlistHandler: &handlers.WishlistHandler{DB: db},
		InquiryHandler:  &handlers.InquiryHandler{DB: db},
		SearchHandler:   &handlers.SearchHandler{ES: searchClient, Index: search.DefaultIndex},
		TokenService:    tokenSvc,
	}

	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         configuration.HTTP_ADDR,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("http server listening", "addr", configuration.HTTP_ADDR)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}

	cronCtx := cronRunner.Stop()
	<-cronCtx.Done()

	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Printf("db close error: %v", err)
		}
	}

	if prod != nil {
		if err := prod.Close(); err != nil {
			log.Printf("kafka close error: %v", err)
		}
	}

	logger.Info("shutdown complete")
}
