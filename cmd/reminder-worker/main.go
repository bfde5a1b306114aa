package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"hearth/internal/amqp"
	"hearth/internal/config"
	"hearth/internal/log"
	"hearth/internal/storage"
	"hearth/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentWorker)
	log.SetDefault(logger)

	logger.Info("Starting reminder worker")

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

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	reminders := worker.NewReminderWorker(store, amqpClient, cfg.ReminderInterval, cfg.ReminderLookahead)
	audit := worker.NewAuditWorker(amqpClient)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return reminders.Run(gctx) })
	g.Go(func() error { return audit.Run(gctx) })

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}

	logger.Info("Reminder worker stopped gracefully")
}
