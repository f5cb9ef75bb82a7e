// Package worker runs the background jobs that keep derived state current:
// rolling recurring templates forward into concrete expenses and publishing
// reminders for bills approaching their due day.
package worker

import (
	"context"
	"log/slog"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/services"
)

// ReminderPublisher publishes bill reminder events. It is nil-able: without
// a broker the worker still rolls recurring expenses forward.
type ReminderPublisher interface {
	PublishBillReminder(ctx context.Context, b core.Bill, status string) error
}

// ReminderWorker periodically processes due recurring expenses and emits
// reminder events for unpaid bills inside their reminder window.
type ReminderWorker struct {
	recurring *services.RecurringService
	bills     *services.BillService
	publisher ReminderPublisher
	interval  time.Duration
}

func NewReminderWorker(recurring *services.RecurringService, bills *services.BillService, publisher ReminderPublisher, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		recurring: recurring,
		bills:     bills,
		publisher: publisher,
		interval:  interval,
	}
}

// Run executes one pass immediately, then one per tick until ctx is
// cancelled. A failing pass is logged and the loop keeps going.
func (w *ReminderWorker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "Reminder worker started", "interval", w.interval)

	w.pass(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.pass(ctx)
		case <-ctx.Done():
			slog.InfoContext(ctx, "Reminder worker stopping")
			return ctx.Err()
		}
	}
}

func (w *ReminderWorker) pass(ctx context.Context) {
	now := time.Now()

	processed, err := w.recurring.ProcessDue(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to process due recurring expenses", "error", err)
	} else if processed > 0 {
		slog.InfoContext(ctx, "Processed due recurring expenses", "count", processed)
	}

	if w.publisher == nil {
		return
	}

	due, err := w.bills.DueForReminder(ctx, now)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to list bills due for reminder", "error", err)
		return
	}

	for _, b := range due {
		status := services.DueStatus(b, now)
		if err := w.publisher.PublishBillReminder(ctx, b, status); err != nil {
			slog.ErrorContext(ctx, "Failed to publish bill reminder",
				"bill_id", b.ID, "name", b.Name, "error", err)
			continue
		}
		slog.InfoContext(ctx, "Published bill reminder",
			"bill_id", b.ID, "name", b.Name, "status", status)
	}
}
