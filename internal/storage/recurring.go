package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

const recurringColumns = `r.id, r.amount_cents, c.name, r.payment_method, r.description,
	r.frequency, r.next_due_date, r.is_active, r.last_processed, r.created_at`

// CreateRecurring inserts a recurring expense template.
func (s *Store) CreateRecurring(ctx context.Context, re core.RecurringExpense) (core.RecurringExpense, error) {
	categoryID, err := categoryIDByName(ctx, s.db, re.Category)
	if err != nil {
		return core.RecurringExpense{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO recurring_expenses (amount_cents, category_id, payment_method, description, frequency, next_due_date, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		re.Amount.Cents, categoryID, re.PaymentMethod, re.Description,
		string(re.Frequency), re.NextDue.ISO(), boolToInt(re.Active))
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("insert recurring expense id: %w", err)
	}
	re.ID = id

	slog.InfoContext(ctx, "Recurring expense created",
		"id", id, "description", re.Description, "frequency", re.Frequency, "next_due", re.NextDue.ISO())
	return re, nil
}

// GetRecurring retrieves one template by id.
func (s *Store) GetRecurring(ctx context.Context, id int64) (core.RecurringExpense, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_expenses r JOIN categories c ON c.id = r.category_id
		 WHERE r.id = ?`, id)
	re, err := scanRecurring(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.RecurringExpense{}, fmt.Errorf("recurring expense %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("get recurring expense %d: %w", id, err)
	}
	return re, nil
}

// ListRecurring returns all templates, active first, soonest due first.
func (s *Store) ListRecurring(ctx context.Context) ([]core.RecurringExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_expenses r JOIN categories c ON c.id = r.category_id
		 ORDER BY r.is_active DESC, r.next_due_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("list recurring expenses: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// DueRecurring returns every active template whose next due date is on or
// before today. Overdue templates are included, not just exactly-due ones.
func (s *Store) DueRecurring(ctx context.Context, today core.Date) ([]core.RecurringExpense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recurringColumns+`
		 FROM recurring_expenses r JOIN categories c ON c.id = r.category_id
		 WHERE r.is_active = 1 AND r.next_due_date <= ?
		 ORDER BY r.next_due_date ASC`, today.ISO())
	if err != nil {
		return nil, fmt.Errorf("select due recurring expenses: %w", err)
	}
	defer rows.Close()
	return collectRecurring(rows)
}

// SetRecurringActive pauses or resumes a template.
func (s *Store) SetRecurringActive(ctx context.Context, id int64, active bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE recurring_expenses SET is_active = ? WHERE id = ?`, boolToInt(active), id)
	if err != nil {
		return fmt.Errorf("toggle recurring expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("toggle recurring expense %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring expense %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Recurring expense toggled", "id", id, "active", active)
	return nil
}

// DeleteRecurring removes a template. Materialized expenses keep their
// recurring_id reference, so templates with history cannot be deleted while
// foreign keys are enforced; callers surface that as a conflict.
func (s *Store) DeleteRecurring(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM recurring_expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recurring expense %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recurring expense %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("recurring expense %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Recurring expense deleted", "id", id)
	return nil
}

// MaterializeRecurring writes the catch-up expense and advances the
// template in one transaction: either both happen or neither does.
func (s *Store) MaterializeRecurring(ctx context.Context, re core.RecurringExpense, today, next core.Date) (core.Expense, error) {
	var saved core.Expense
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		e := core.Expense{
			Amount:        re.Amount,
			Date:          today,
			Category:      re.Category,
			PaymentMethod: re.PaymentMethod,
			Description:   re.Description,
			IsRecurring:   true,
			RecurringID:   re.ID,
		}
		var err error
		saved, err = insertExpense(ctx, tx, e)
		if err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE recurring_expenses SET next_due_date = ?, last_processed = ? WHERE id = ?`,
			next.ISO(), today.ISO(), re.ID)
		if err != nil {
			return fmt.Errorf("advance recurring expense %d: %w", re.ID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("advance recurring expense %d: %w", re.ID, err)
		}
		if affected == 0 {
			return fmt.Errorf("recurring expense %d: %w", re.ID, core.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Recurring expense materialized",
		"recurring_id", re.ID,
		"expense_id", saved.ID,
		"amount_cents", saved.Amount.Cents,
		"next_due", next.ISO())
	return saved, nil
}

func collectRecurring(rows *sql.Rows) ([]core.RecurringExpense, error) {
	var out []core.RecurringExpense
	for rows.Next() {
		re, err := scanRecurring(rows)
		if err != nil {
			return nil, fmt.Errorf("scan recurring expense: %w", err)
		}
		out = append(out, re)
	}
	return out, rows.Err()
}

func scanRecurring(row rowScanner) (core.RecurringExpense, error) {
	var re core.RecurringExpense
	var freq, nextDue string
	var active int
	var lastProcessed sql.NullString
	if err := row.Scan(&re.ID, &re.Amount.Cents, &re.Category, &re.PaymentMethod, &re.Description,
		&freq, &nextDue, &active, &lastProcessed, &re.CreatedAt); err != nil {
		return core.RecurringExpense{}, err
	}
	re.Frequency = core.Frequency(freq)
	re.Active = active != 0

	d, err := core.ParseDate(nextDue)
	if err != nil {
		return core.RecurringExpense{}, fmt.Errorf("parse next due date %q: %w", nextDue, err)
	}
	re.NextDue = d

	if lastProcessed.Valid && lastProcessed.String != "" {
		lp, err := core.ParseDate(lastProcessed.String)
		if err != nil {
			return core.RecurringExpense{}, fmt.Errorf("parse last processed date %q: %w", lastProcessed.String, err)
		}
		re.LastProcessed = lp
	}
	return re, nil
}
