// spendtrack-worker runs the background sweep on its own, for deployments
// that keep the API server and the scheduler in separate processes.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"spendtrack/internal/amqp"
	"spendtrack/internal/config"
	applog "spendtrack/internal/log"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
	"spendtrack/internal/worker"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     applog.DefaultConfig().Level,
		Component: applog.ComponentWorker,
	})
	applog.SetDefault(logger)

	logger.Info("Starting spendtrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	store, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open database", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer store.Close()

	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without reminders", "error", err)
			events = nil
		} else {
			defer events.Close()
		}
	}

	var publisher services.EventPublisher
	var reminders worker.ReminderPublisher
	if events != nil {
		publisher = events
		reminders = events
	}

	recurring := services.NewRecurringService(store, publisher)
	bills := services.NewBillService(store, publisher)

	sweeper := worker.NewReminderWorker(recurring, bills, reminders, cfg.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Sweep configured", "interval", cfg.SweepInterval, "db", cfg.SQLiteDBPath)

	if err := sweeper.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("Worker error", "error", err)
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
