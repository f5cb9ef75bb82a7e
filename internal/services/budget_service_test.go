package services

import (
	"context"
	"testing"
	"time"

	"spendtrack/internal/core"
)

type fakeBudgetStore struct {
	budgets []core.Budget
	spend   map[string]int64 // category -> cents spent this month
}

func (f *fakeBudgetStore) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	for i := range f.budgets {
		if f.budgets[i].Category == b.Category && f.budgets[i].Period == b.Period {
			f.budgets[i].Amount = b.Amount
			return f.budgets[i], nil
		}
	}
	b.ID = int64(len(f.budgets) + 1)
	f.budgets = append(f.budgets, b)
	return b, nil
}

func (f *fakeBudgetStore) GetBudget(ctx context.Context, category, period string) (core.Budget, error) {
	for _, b := range f.budgets {
		if b.Category == category && b.Period == period {
			return b, nil
		}
	}
	return core.Budget{}, core.ErrNotFound
}

func (f *fakeBudgetStore) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	return f.budgets, nil
}

func (f *fakeBudgetStore) DeleteBudget(ctx context.Context, category, period string) error {
	for i := range f.budgets {
		if f.budgets[i].Category == category && f.budgets[i].Period == period {
			f.budgets = append(f.budgets[:i], f.budgets[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeBudgetStore) MonthCategorySpend(ctx context.Context, category string, from core.Date) (core.Money, error) {
	return core.Money{Cents: f.spend[category]}, nil
}

func TestSetBudgetUpserts(t *testing.T) {
	store := &fakeBudgetStore{spend: map[string]int64{}}
	svc := NewBudgetService(store)

	first, err := svc.Set(context.Background(), core.Budget{Category: "Food", Amount: core.Money{Cents: 40000}})
	if err != nil {
		t.Fatalf("first Set: %v", err)
	}
	if first.Period != core.PeriodMonthly {
		t.Errorf("period defaulted to %q, want monthly", first.Period)
	}

	second, err := svc.Set(context.Background(), core.Budget{Category: "Food", Amount: core.Money{Cents: 55000}})
	if err != nil {
		t.Fatalf("second Set: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a new row: id %d vs %d", second.ID, first.ID)
	}
	if len(store.budgets) != 1 {
		t.Fatalf("budget count = %d, want 1", len(store.budgets))
	}
	if store.budgets[0].Amount.Cents != 55000 {
		t.Errorf("amount after upsert = %d, want 55000", store.budgets[0].Amount.Cents)
	}
}

func TestBudgetProgress(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		budgetCents    int64
		spentCents     int64
		wantPercentage float64
		wantRemaining  int64
	}{
		{name: "halfway", budgetCents: 40000, spentCents: 20000, wantPercentage: 50, wantRemaining: 20000},
		{name: "untouched", budgetCents: 40000, spentCents: 0, wantPercentage: 0, wantRemaining: 40000},
		{name: "exactly spent", budgetCents: 40000, spentCents: 40000, wantPercentage: 100, wantRemaining: 0},
		{name: "overspend clamps percentage not remaining", budgetCents: 40000, spentCents: 52000, wantPercentage: 100, wantRemaining: -12000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeBudgetStore{
				budgets: []core.Budget{{ID: 1, Category: "Food", Amount: core.Money{Cents: tt.budgetCents}, Period: core.PeriodMonthly}},
				spend:   map[string]int64{"Food": tt.spentCents},
			}
			svc := NewBudgetService(store)

			p, err := svc.Progress(context.Background(), "Food", now)
			if err != nil {
				t.Fatalf("Progress: %v", err)
			}
			if p.Percentage != tt.wantPercentage {
				t.Errorf("percentage = %v, want %v", p.Percentage, tt.wantPercentage)
			}
			if p.Remaining.Cents != tt.wantRemaining {
				t.Errorf("remaining = %d, want %d", p.Remaining.Cents, tt.wantRemaining)
			}
			if p.Spent.Cents != tt.spentCents {
				t.Errorf("spent = %d, want %d", p.Spent.Cents, tt.spentCents)
			}
		})
	}
}

func TestBudgetProgressZeroBudget(t *testing.T) {
	store := &fakeBudgetStore{
		budgets: []core.Budget{{ID: 1, Category: "Food", Amount: core.Money{}, Period: core.PeriodMonthly}},
		spend:   map[string]int64{"Food": 5000},
	}
	svc := NewBudgetService(store)

	p, err := svc.Progress(context.Background(), "Food", time.Now())
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if p.Percentage != 0 {
		t.Errorf("zero budget percentage = %v, want 0", p.Percentage)
	}
}

func TestSetBudgetRejectsInvalidPeriod(t *testing.T) {
	svc := NewBudgetService(&fakeBudgetStore{spend: map[string]int64{}})

	_, err := svc.Set(context.Background(), core.Budget{
		Category: "Food",
		Amount:   core.Money{Cents: 1000},
		Period:   "weekly",
	})
	if err != core.ErrInvalidPeriod {
		t.Errorf("Set error = %v, want ErrInvalidPeriod", err)
	}
}

func TestDeleteBudgetUsesMonthlyPeriod(t *testing.T) {
	store := &fakeBudgetStore{
		budgets: []core.Budget{{ID: 1, Category: "Food", Amount: core.Money{Cents: 1000}, Period: core.PeriodMonthly}},
		spend:   map[string]int64{},
	}
	svc := NewBudgetService(store)

	if err := svc.Delete(context.Background(), "Food"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(store.budgets) != 0 {
		t.Errorf("budget count after delete = %d, want 0", len(store.budgets))
	}
}
