package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hearth/internal/amqp"
	"hearth/internal/auth"
	"hearth/internal/cache"
	"hearth/internal/config"
	"hearth/internal/handler"
	"hearth/internal/log"
	"hearth/internal/middleware"
	"hearth/internal/services"
	"hearth/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.NewStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize store", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	// AMQP is optional: without a broker, ledger events are skipped and
	// everything else keeps working.
	var publisher services.EventPublisher
	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("AMQP unavailable, ledger events disabled", "error", err)
	} else {
		defer amqpClient.Close()
		publisher = amqpClient
	}

	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn)
	responseCache := handler.NewResponseCache(cfg.CacheSize, cfg.CacheTTL)

	cacheManager := cache.NewManager()
	cacheManager.Register(responseCache.Cleaner())
	cacheManager.StartCleanup(cfg.CacheTTL)
	defer cacheManager.Stop()

	limiter := middleware.NewLimiter(middleware.DefaultLimiterConfig())
	defer limiter.Stop()

	router := handler.NewRouter(handler.Deps{
		Store:     store,
		Tokens:    tokens,
		Ledger:    services.NewLedgerService(store, publisher),
		Dashboard: services.NewDashboardService(store),
		Reports:   services.NewReportService(store),
		Cache:     responseCache,
		Limiter:   limiter,
	})

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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

	logger.Info("Starting hearth server", "port", cfg.Port, "db_path", cfg.SQLiteDBPath)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
