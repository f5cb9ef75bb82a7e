package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

const expenseColumns = `e.id, e.amount_cents, e.date, c.name, e.payment_method,
	e.description, e.is_recurring, e.recurring_id, e.created_at`

// insertExpense writes one expense row. It runs on a plain connection or
// inside a transaction, which is how bill payments and recurring
// materializations keep their writes atomic.
func insertExpense(ctx context.Context, q querier, e core.Expense) (core.Expense, error) {
	categoryID, err := categoryIDByName(ctx, q, e.Category)
	if err != nil {
		return core.Expense{}, err
	}

	var recurringID any
	if e.RecurringID != 0 {
		recurringID = e.RecurringID
	}

	res, err := q.ExecContext(ctx,
		`INSERT INTO expenses (amount_cents, date, category_id, payment_method, description, is_recurring, recurring_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.Amount.Cents, e.Date.ISO(), categoryID, e.PaymentMethod, e.Description,
		boolToInt(e.IsRecurring), recurringID)
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Expense{}, fmt.Errorf("insert expense id: %w", err)
	}
	e.ID = id
	return e, nil
}

// CreateExpense validates nothing: callers validate at the service boundary.
func (s *Store) CreateExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	saved, err := insertExpense(ctx, s.db, e)
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", saved.ID,
		"description", saved.Description,
		"amount_cents", saved.Amount.Cents,
		"date", saved.Date.ISO(),
		"category", saved.Category)
	return saved, nil
}

// GetExpense retrieves a single expense by id.
func (s *Store) GetExpense(ctx context.Context, id int64) (core.Expense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e JOIN categories c ON c.id = e.category_id
		 WHERE e.id = ?`, id)
	e, err := scanExpense(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Expense{}, fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense %d: %w", id, err)
	}
	return e, nil
}

// ListExpenses returns all expenses within the given calendar month, newest
// first.
func (s *Store) ListExpenses(ctx context.Context, year, month int) ([]core.Expense, error) {
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month+1, 1)

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+expenseColumns+`
		 FROM expenses e JOIN categories c ON c.id = e.category_id
		 WHERE e.date >= ? AND e.date < ?
		 ORDER BY e.date DESC, e.id DESC`, from.ISO(), to.ISO())
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense row.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("expense %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Expense deleted", "id", id)
	return nil
}

// MonthCategorySpend sums expense amounts for one category from the given
// date (normally the first of the current month) onward.
func (s *Store) MonthCategorySpend(ctx context.Context, category string, from core.Date) (core.Money, error) {
	id, err := categoryIDByName(ctx, s.db, category)
	if err != nil {
		return core.Money{}, err
	}

	var cents sql.NullInt64
	err = s.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE category_id = ? AND date >= ?`,
		id, from.ISO()).Scan(&cents)
	if err != nil {
		return core.Money{}, fmt.Errorf("sum category spend: %w", err)
	}
	return core.Money{Cents: cents.Int64}, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (core.Expense, error) {
	var e core.Expense
	var dateStr string
	var recurring int
	var recurringID sql.NullInt64
	if err := row.Scan(&e.ID, &e.Amount.Cents, &dateStr, &e.Category, &e.PaymentMethod,
		&e.Description, &recurring, &recurringID, &e.CreatedAt); err != nil {
		return core.Expense{}, err
	}
	d, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense date %q: %w", dateStr, err)
	}
	e.Date = d
	e.IsRecurring = recurring != 0
	e.RecurringID = recurringID.Int64
	return e, nil
}
