package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

// SetBudget upserts the budget for (category, period). Setting a budget for
// a category that already has one replaces its amount.
func (s *Store) SetBudget(ctx context.Context, b core.Budget) (core.Budget, error) {
	categoryID, err := categoryIDByName(ctx, s.db, b.Category)
	if err != nil {
		return core.Budget{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO budgets (category_id, amount_cents, period) VALUES (?, ?, ?)
		 ON CONFLICT (category_id, period) DO UPDATE SET amount_cents = excluded.amount_cents`,
		categoryID, b.Amount.Cents, b.Period)
	if err != nil {
		return core.Budget{}, fmt.Errorf("upsert budget: %w", err)
	}

	saved, err := s.GetBudget(ctx, b.Category, b.Period)
	if err != nil {
		return core.Budget{}, err
	}

	slog.InfoContext(ctx, "Budget set",
		"id", saved.ID, "category", saved.Category, "amount_cents", saved.Amount.Cents, "period", saved.Period)
	return saved, nil
}

// GetBudget returns the budget for (category, period).
func (s *Store) GetBudget(ctx context.Context, category, period string) (core.Budget, error) {
	var b core.Budget
	err := s.db.QueryRowContext(ctx,
		`SELECT b.id, c.name, b.amount_cents, b.period, b.created_at
		 FROM budgets b JOIN categories c ON c.id = b.category_id
		 WHERE c.name = ? AND b.period = ?`, category, period).
		Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Period, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Budget{}, fmt.Errorf("budget for %q: %w", category, core.ErrNotFound)
	}
	if err != nil {
		return core.Budget{}, fmt.Errorf("get budget: %w", err)
	}
	return b, nil
}

// ListBudgets returns all budgets ordered by category name.
func (s *Store) ListBudgets(ctx context.Context) ([]core.Budget, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT b.id, c.name, b.amount_cents, b.period, b.created_at
		 FROM budgets b JOIN categories c ON c.id = b.category_id
		 ORDER BY c.name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list budgets: %w", err)
	}
	defer rows.Close()

	var budgets []core.Budget
	for rows.Next() {
		var b core.Budget
		if err := rows.Scan(&b.ID, &b.Category, &b.Amount.Cents, &b.Period, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

// DeleteBudget removes the budget for (category, period).
func (s *Store) DeleteBudget(ctx context.Context, category, period string) error {
	categoryID, err := categoryIDByName(ctx, s.db, category)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM budgets WHERE category_id = ? AND period = ?`, categoryID, period)
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete budget: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("budget for %q: %w", category, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Budget deleted", "category", category, "period", period)
	return nil
}
