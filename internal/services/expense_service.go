package services

import (
	"context"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

// ExpenseStore is the storage surface the expense service needs.
type ExpenseStore interface {
	CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	GetExpense(ctx context.Context, id int64) (core.Expense, error)
	ListExpenses(ctx context.Context, year, month int) ([]core.Expense, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// EventPublisher publishes domain events for downstream consumers. A nil
// publisher disables publication; a failed publish never fails the local
// write.
type EventPublisher interface {
	PublishExpenseCreated(ctx context.Context, e core.Expense) error
}

// ExpenseService validates and records expenses.
type ExpenseService struct {
	store  ExpenseStore
	events EventPublisher
}

func NewExpenseService(store ExpenseStore, events EventPublisher) *ExpenseService {
	return &ExpenseService{store: store, events: events}
}

// Create validates and saves an expense, then publishes an event.
func (s *ExpenseService) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.CreateExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishCreated(ctx, saved)
	return saved, nil
}

// List returns the expenses of one calendar month.
func (s *ExpenseService) List(ctx context.Context, year, month int) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx, year, month)
}

// Get returns one expense by id.
func (s *ExpenseService) Get(ctx context.Context, id int64) (core.Expense, error) {
	return s.store.GetExpense(ctx, id)
}

// Delete removes an expense.
func (s *ExpenseService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteExpense(ctx, id)
}

func (s *ExpenseService) publishCreated(ctx context.Context, e core.Expense) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishExpenseCreated(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense created event",
			"id", e.ID, "error", err)
	}
}
