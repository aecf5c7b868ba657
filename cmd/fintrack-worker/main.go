package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/storage"
)

// fintrack-worker consumes transaction change events and logs an audit trail
// for each one. It shares the SQLite database with the server to resolve the
// records events point at.
func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		applog.New(applog.DefaultConfig()).Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		applog.New(applog.DefaultConfig()).Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	logger := applog.New(applog.Config{
		Level:     applog.ParseLevel(cfg.LogLevel),
		Component: "fintrack-worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	handler := func(msg *amqp.TransactionEventMessage) error {
		if msg.Action == amqp.ActionDeleted {
			logger.Info("Transaction deleted", "id", msg.ID, "at", msg.Timestamp)
			return nil
		}

		tx, err := repo.GetTransaction(ctx, msg.ID)
		if err != nil {
			return err
		}
		if tx == nil {
			// The record may already be gone; nothing to requeue for.
			logger.Warn("Event for unknown transaction", "id", msg.ID, "action", msg.Action)
			return nil
		}

		logger.Info("Transaction event",
			"id", tx.ID,
			"action", msg.Action,
			"date", tx.Date.String(),
			"amount_cents", tx.Amount.Cents,
			"category", tx.Category,
			"transaction_type", tx.Kind)
		return nil
	}

	if err := amqpClient.ConsumeTransactionEvents(ctx, handler); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Event consumption failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker shutdown complete")
}
