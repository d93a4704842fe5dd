package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"ledgerview/internal/amqp"
	"ledgerview/internal/auth"
	"ledgerview/internal/backend"
	"ledgerview/internal/cache"
	"ledgerview/internal/config"
	apphttp "ledgerview/internal/http"
	"ledgerview/internal/log"
	"ledgerview/internal/middleware/metrics"
	"ledgerview/internal/middleware/ratelimit"
	"ledgerview/internal/reports"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := log.New(log.Config{Level: slog.LevelInfo, Component: log.ComponentApp})
	slog.SetDefault(logger.Logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	result, err := backend.Create(cfg)
	if err != nil {
		logger.Error("Failed to initialize data backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer result.Cleanup()

	cacheStore := newCacheStore(cfg, logger.Logger)
	defer cacheStore.Close()

	reportSvc := reports.NewService(result.Backend, result.Backend, cacheStore,
		cfg.PageSize, cfg.DashboardTopN)

	// The refresh endpoint degrades to 503 when the broker is unreachable.
	var publisher apphttp.RefreshPublisher
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, refresh endpoint disabled", "error", err)
		} else {
			defer client.Close()
			publisher = client
		}
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:           ":" + cfg.Port,
		Reports:        reportSvc,
		Publisher:      publisher,
		Auth:           auth.NewValidator(cfg.JWTSecret),
		RequestTimeout: cfg.RequestTimeout,
		RateLimit:      ratelimit.DefaultConfig(),
	})
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if ms, ok := cacheStore.(*cache.MemoryStore); ok {
		go reportCacheGauge(ctx, ms)
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting ledgerview server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

func newCacheStore(cfg *config.Config, logger *slog.Logger) cache.Store {
	if cfg.CacheBackend == config.CacheRedis {
		store, err := cache.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.CacheTTL)
		if err != nil {
			logger.Warn("Redis unavailable, falling back to memory cache", "error", err)
		} else {
			logger.Info("Report cache on Redis", "addr", cfg.RedisAddr)
			return store
		}
	}
	return cache.NewMemoryStore(cfg.CacheSize, cfg.CacheTTL)
}

// reportCacheGauge keeps the cache-entries metric in step with the
// in-process store.
func reportCacheGauge(ctx context.Context, ms *cache.MemoryStore) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SetCacheEntries(ms.Size())
		}
	}
}
