// @title           WaoSongs Storefront API
// @version         1.0
// @description     Order wizard, session and dashboard API for the song marketplace.
// @host            localhost:8080
// @BasePath        /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"

	"github.com/waosongs/storefront/internal/api"
	"github.com/waosongs/storefront/internal/api/handler"
	"github.com/waosongs/storefront/internal/api/metrics"
	"github.com/waosongs/storefront/internal/api/middleware"
	"github.com/waosongs/storefront/internal/core/ports"
	"github.com/waosongs/storefront/internal/core/service"
	"github.com/waosongs/storefront/internal/infrastructure/backend"
	"github.com/waosongs/storefront/internal/infrastructure/config"
	"github.com/waosongs/storefront/internal/infrastructure/db/mongo"
	"github.com/waosongs/storefront/internal/infrastructure/db/redis"
	"github.com/waosongs/storefront/internal/infrastructure/queue"
	"github.com/waosongs/storefront/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		bootLog := logger.New(logger.Options{Service: "storefront"})
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "storefront",
	})

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: "storefront"})
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

	// Audit workers stop after the server; they store what is still queued first.
	auditCtx, stopAudit := context.WithCancel(context.Background())
	audit := queue.NewDispatcher(cfg.Audit.Workers, mongo.NewAuditRepository(db), log)
	audit.Start(auditCtx)

	client := backend.New(backend.Config{BaseURL: cfg.Backend.URL, Timeout: cfg.Backend.Timeout}, log)

	registry := service.NewVisitorRegistry(service.VisitorDeps{
		Storage: func(visitorID string) ports.Storage {
			return redis.NewVisitorStorage(rdb, visitorID)
		},
		Backend:       client,
		Audit:         audit,
		CredentialTTL: cfg.Session.CredentialTTL,
		DraftTTL:      cfg.Drafts.TTL,
		LoginRate:     rate.Limit(float64(cfg.Session.LoginRatePerMinute) / 60),
		LoginBurst:    cfg.Session.LoginBurst,
		Log:           log,
	}, cfg.Session.VisitorCacheSize, cfg.Session.VisitorLifetime)
	metrics.VisitorsGauge(func() float64 { return float64(registry.Len()) })

	e := api.NewRouter(api.RouterDeps{
		Registry: registry,
		Cookies: middleware.CookieOptions{
			Secure: cfg.Session.SecureCookies,
			MaxAge: cfg.Session.CredentialTTL,
		},
		AutoAdvance:    cfg.Drafts.AutoAdvance,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Checks: map[string]handler.Checker{
			"mongodb": handler.MongoChecker(db),
			"redis":   handler.RedisChecker(rdb),
			"backend": client.Ping,
		},
		Log: log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("backend", cfg.Backend.URL).Msg("storefront listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	stopAudit()
	audit.Wait()
	log.Info().Msg("storefront stopped")
}
