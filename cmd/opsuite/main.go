package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/opsuite/bfa-go/internal/catalog"
	"github.com/opsuite/bfa-go/internal/config"
	"github.com/opsuite/bfa-go/internal/domain"
	"github.com/opsuite/bfa-go/internal/handler"
	"github.com/opsuite/bfa-go/internal/infra/badgerstore"
	"github.com/opsuite/bfa-go/internal/infra/cache"
	"github.com/opsuite/bfa-go/internal/infra/observability"
	"github.com/opsuite/bfa-go/internal/infra/resilience"
	"github.com/opsuite/bfa-go/internal/service"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("data_dir", cfg.DataDir),
		zap.Bool("store_in_memory", cfg.StoreInMemory),
		zap.String("catalog_path", cfg.CatalogPath),
		zap.Duration("cache_ttl", cfg.CacheTTL),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "opsuite-bfa")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Catalog ---
	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			logger.Fatal("failed to load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
		}
		logger.Info("catalog loaded from file", zap.String("path", cfg.CatalogPath))
	} else {
		cat = catalog.Default()
		if err := cat.Validate(); err != nil {
			logger.Fatal("built-in catalog invalid", zap.Error(err))
		}
	}

	// --- State store ---
	store, err := badgerstore.Open(badgerstore.Config{
		Path:       cfg.DataDir,
		InMemory:   cfg.StoreInMemory,
		SyncWrites: cfg.SyncWrites,
	}, logger)
	if err != nil {
		logger.Fatal("failed to open state store", zap.Error(err))
	}
	defer store.Close()

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("state-store")
	bulkhead := resilience.NewBulkhead(cfg.MaxConcurrency)

	// --- Services ---
	profileSvc := service.NewProfileService(cat, store, cb, resilienceCfg, metrics, logger)
	if err := profileSvc.Restore(context.Background()); err != nil {
		// A damaged state file should not keep the service down; the
		// profile can be re-initialized from the UI.
		logger.Warn("failed to restore persisted profile state", zap.Error(err))
	}

	// --- Preview cache ---
	previewCache := cache.New[[]domain.ModuleID](cfg.CacheTTL)

	// --- Router ---
	router := handler.NewRouter(profileSvc, cat, previewCache, metrics, logger, handler.Options{
		JWTSecret: cfg.JWTSecret,
		Bulkhead:  bulkhead,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
