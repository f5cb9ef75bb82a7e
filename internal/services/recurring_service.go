package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/core"
)

// RecurringStore is the storage surface the recurring service needs.
type RecurringStore interface {
	CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error)
	GetRecurring(ctx context.Context, id int64) (core.RecurringExpense, error)
	ListRecurring(ctx context.Context) ([]core.RecurringExpense, error)
	DueRecurring(ctx context.Context, today core.Date) ([]core.RecurringExpense, error)
	SetRecurringActive(ctx context.Context, id int64, active bool) error
	DeleteRecurring(ctx context.Context, id int64) error
	MaterializeRecurring(ctx context.Context, re core.RecurringExpense, today, next core.Date) (core.Expense, error)
}

// RecurringService manages recurring expense templates and their
// rollforward into concrete expenses.
type RecurringService struct {
	store  RecurringStore
	events EventPublisher
}

func NewRecurringService(store RecurringStore, events EventPublisher) *RecurringService {
	return &RecurringService{store: store, events: events}
}

// Create validates and saves a template.
func (s *RecurringService) Create(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	if err := re.Validate(); err != nil {
		return core.RecurringExpense{}, err
	}
	return s.store.CreateRecurring(ctx, re)
}

// List returns all templates.
func (s *RecurringService) List(ctx context.Context) ([]core.RecurringExpense, error) {
	return s.store.ListRecurring(ctx)
}

// SetActive pauses or resumes a template.
func (s *RecurringService) SetActive(ctx context.Context, id int64, active bool) error {
	return s.store.SetRecurringActive(ctx, id, active)
}

// Delete removes a template.
func (s *RecurringService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteRecurring(ctx, id)
}

// ProcessDue rolls forward every active template due on or before today.
// Each one materializes a single catch-up expense dated today and jumps its
// next due date one period past today, so a template overdue by several
// cycles produces one expense, not one per missed cycle. A second call on
// the same day finds nothing due and is a no-op.
func (s *RecurringService) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	today := core.Today(now)

	due, err := s.store.DueRecurring(ctx, today)
	if err != nil {
		return 0, fmt.Errorf("select due recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Processing recurring expenses",
		"due", len(due), "date", today.ISO())

	processed := 0
	for _, re := range due {
		next, err := NextRun(re.Frequency, today)
		if err != nil {
			slog.ErrorContext(ctx, "Skipping recurring expense with bad frequency",
				"id", re.ID, "frequency", re.Frequency, "error", err)
			continue
		}

		expense, err := s.store.MaterializeRecurring(ctx, re, today, next)
		if err != nil {
			slog.ErrorContext(ctx, "Failed to materialize recurring expense",
				"id", re.ID, "description", re.Description, "error", err)
			continue
		}

		processed++
		if s.events != nil {
			if err := s.events.PublishExpenseCreated(ctx, expense); err != nil {
				slog.ErrorContext(ctx, "Failed to publish materialized expense event",
					"expense_id", expense.ID, "error", err)
			}
		}

		slog.InfoContext(ctx, "Materialized recurring expense",
			"recurring_id", re.ID,
			"expense_id", expense.ID,
			"amount_cents", expense.Amount.Cents,
			"next_due", next.ISO())
	}

	slog.InfoContext(ctx, "Recurring processing complete",
		"processed", processed, "due", len(due))
	return processed, nil
}
