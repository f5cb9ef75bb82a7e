package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"spendtrack/internal/amqp"
	"spendtrack/internal/config"
	apphttp "spendtrack/internal/http"
	applog "spendtrack/internal/log"
	"spendtrack/internal/services"
	"spendtrack/internal/storage"
	"spendtrack/internal/worker"
)

func main() {
	// Load .env for local development; absent in containers.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

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
	logger.Info("Database ready", "path", cfg.SQLiteDBPath)

	// AMQP is optional: without a broker the tracker runs standalone and
	// skips event publishing.
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without events", "error", err)
			events = nil
		} else {
			defer events.Close()
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	}

	var publisher services.EventPublisher
	var reminders worker.ReminderPublisher
	if events != nil {
		publisher = events
		reminders = events
	}

	svc := apphttp.Services{
		Expenses:    services.NewExpenseService(store, publisher),
		Categories:  services.NewCategoryService(store),
		Budgets:     services.NewBudgetService(store),
		Recurring:   services.NewRecurringService(store, publisher),
		Bills:       services.NewBillService(store, publisher),
		Suggestions: services.NewSuggestionService(store),
		Insights:    services.NewInsightService(store),
	}

	server := apphttp.NewServer(":"+cfg.Port, svc, logger, apphttp.Options{
		CacheSize: cfg.CacheSize,
		CacheTTL:  cfg.CacheTTL,
	})

	sweeper := worker.NewReminderWorker(svc.Recurring, svc.Bills, reminders, cfg.SweepInterval)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting spendtrack server", "port", cfg.Port)
		return server.Start()
	})

	g.Go(func() error {
		err := sweeper.Run(gctx)
		if err == context.Canceled {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
