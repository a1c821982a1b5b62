// Command devapi runs the development order backend the storefront talks to.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/waosongs/storefront/internal/devapi"
	"github.com/waosongs/storefront/internal/infrastructure/config"
	"github.com/waosongs/storefront/internal/infrastructure/db/mongo"
	"github.com/waosongs/storefront/internal/infrastructure/db/redis"
	"github.com/waosongs/storefront/pkg/logger"
)

const (
	shutdownTimeout = 10 * time.Second
	devSecret       = "dev-only-secret"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "devapi"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "devapi",
	})

	secret := cfg.DevAPI.JWTSecret
	if secret == "" {
		if !cfg.IsDevelopment() {
			log.Fatal().Msg("JWT_SECRET is required outside development")
		}
		log.Warn().Msg("JWT_SECRET not set, using the development secret")
		secret = devSecret
	}

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "devapi"})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		if err := mongo.Disconnect(mongoClient); err != nil {
			log.Error().Err(err).Msg("mongo disconnect")
		}
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()

	accountRepo := mongo.NewAccountRepository(db)
	orderRepo := mongo.NewOrderRepository(db)
	if err := accountRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("account indexes")
	}
	if err := orderRepo.EnsureIndexes(ctx); err != nil {
		log.Fatal().Err(err).Msg("order indexes")
	}

	refs := redis.NewIdempotencyStore(rdb)
	orders := devapi.NewOrderService(orderRepo, refs, log)
	e := devapi.NewRouter(
		devapi.NewAccountService(accountRepo, secret, cfg.DevAPI.TokenTTL),
		orders,
		devapi.NewPaymentService(orders, refs, log),
		log,
	)

	go func() {
		log.Info().Str("port", cfg.DevAPI.Port).Msg("devapi listening")
		if err := e.Start(":" + cfg.DevAPI.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("devapi stopped")
}
