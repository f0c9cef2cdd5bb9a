// Package main starts the HTTP server that serves schema graphs to the
// browser extension: graph ensure/clear endpoints plus a health check.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/schemalens/core/cmd/api/middleware"
	"github.com/schemalens/core/internal/cache"
	"github.com/schemalens/core/internal/config"
	"github.com/schemalens/core/internal/fetch"
	"github.com/schemalens/core/internal/handlers"
	"github.com/schemalens/core/internal/service"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("loading config", zap.Error(err))
	}

	store, err := cache.NewRedisStore(cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
		Prefix:   cfg.Cache.Prefix,
	})
	if err != nil {
		logger.Fatal("connecting to redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
	}
	defer store.Close()

	svc := service.New(
		cache.NewGraphCache(store, cfg.Cache.TTL, logger),
		service.APIClientFactory(cfg.API.Version, cfg.Fetch.MaxRetries, logger),
		newFetchOptions(cfg),
		logger,
	)

	router := newRouter(svc, cfg, logger)
	server := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.Addr()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newRouter(svc handlers.GraphService, cfg *config.Config, logger *zap.Logger) chi.Router {
	graphHandler := handlers.NewGraphHandler(svc, logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Cors(cfg.CORS.AllowedOrigin))

	r.Get("/health", handlers.HealthHandler)
	r.Post("/v1/graph/ensure", graphHandler.Ensure)
	r.Delete("/v1/graph", graphHandler.Clear)
	return r
}

func newFetchOptions(cfg *config.Config) fetch.Options {
	return fetch.Options{
		BatchSize:   cfg.Fetch.BatchSize,
		PacingDelay: cfg.Fetch.PacingDelay,
	}
}
