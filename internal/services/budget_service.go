package services

import (
	"context"
	"fmt"
	"time"

	"spendtrack/internal/core"
)

// BudgetStore is the storage surface the budget service needs.
type BudgetStore interface {
	SetBudget(ctx context.Context, b core.Budget) (core.Budget, error)
	GetBudget(ctx context.Context, category, period string) (core.Budget, error)
	ListBudgets(ctx context.Context) ([]core.Budget, error)
	DeleteBudget(ctx context.Context, category, period string) error
	MonthCategorySpend(ctx context.Context, category string, from core.Date) (core.Money, error)
}

// BudgetService manages monthly budgets and their progress math.
type BudgetService struct {
	store BudgetStore
}

func NewBudgetService(store BudgetStore) *BudgetService {
	return &BudgetService{store: store}
}

// Set upserts a budget: a category that already has one for the period gets
// its amount replaced.
func (s *BudgetService) Set(ctx context.Context, b core.Budget) (core.Budget, error) {
	if b.Period == "" {
		b.Period = core.PeriodMonthly
	}
	if err := b.Validate(); err != nil {
		return core.Budget{}, err
	}
	return s.store.SetBudget(ctx, b)
}

// List returns all budgets.
func (s *BudgetService) List(ctx context.Context) ([]core.Budget, error) {
	return s.store.ListBudgets(ctx)
}

// Delete removes a category's monthly budget.
func (s *BudgetService) Delete(ctx context.Context, category string) error {
	return s.store.DeleteBudget(ctx, category, core.PeriodMonthly)
}

// Progress computes how far into its monthly budget a category is. Spent
// covers the current calendar month. Remaining goes negative on overspend;
// Percentage is clamped to 100 and a zero budget yields 0, never a division
// artifact.
func (s *BudgetService) Progress(ctx context.Context, category string, now time.Time) (core.BudgetProgress, error) {
	budget, err := s.store.GetBudget(ctx, category, core.PeriodMonthly)
	if err != nil {
		return core.BudgetProgress{}, err
	}
	return s.progressFor(ctx, budget, now)
}

// ListProgress computes progress for every budget.
func (s *BudgetService) ListProgress(ctx context.Context, now time.Time) ([]core.BudgetProgress, error) {
	budgets, err := s.store.ListBudgets(ctx)
	if err != nil {
		return nil, err
	}

	progress := make([]core.BudgetProgress, 0, len(budgets))
	for _, b := range budgets {
		p, err := s.progressFor(ctx, b, now)
		if err != nil {
			return nil, fmt.Errorf("progress for %q: %w", b.Category, err)
		}
		progress = append(progress, p)
	}
	return progress, nil
}

func (s *BudgetService) progressFor(ctx context.Context, budget core.Budget, now time.Time) (core.BudgetProgress, error) {
	monthStart := core.Today(now).StartOfMonth()
	spent, err := s.store.MonthCategorySpend(ctx, budget.Category, monthStart)
	if err != nil {
		return core.BudgetProgress{}, err
	}

	var percentage float64
	if budget.Amount.Cents > 0 {
		percentage = float64(spent.Cents) / float64(budget.Amount.Cents) * 100
		if percentage > 100 {
			percentage = 100
		}
	}

	return core.BudgetProgress{
		Category:   budget.Category,
		Budget:     budget.Amount,
		Spent:      spent,
		Remaining:  core.Money{Cents: budget.Amount.Cents - spent.Cents},
		Percentage: percentage,
	}, nil
}
