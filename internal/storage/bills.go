package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"spendtrack/internal/core"
)

const billColumns = `b.id, b.name, b.amount_cents, c.name, b.due_day, b.frequency,
	b.reminder_days, b.is_paid, b.last_paid_date, b.notes, b.created_at`

// CreateBill inserts a bill.
func (s *Store) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	categoryID, err := categoryIDByName(ctx, s.db, b.Category)
	if err != nil {
		return core.Bill{}, err
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO bills (name, amount_cents, category_id, due_day, frequency, reminder_days, is_paid, notes)
		 VALUES (?, ?, ?, ?, ?, ?, 0, ?)`,
		b.Name, b.Amount.Cents, categoryID, b.DueDay, string(b.Frequency), b.ReminderDays, b.Notes)
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Bill{}, fmt.Errorf("insert bill id: %w", err)
	}
	b.ID = id
	b.Paid = false

	slog.InfoContext(ctx, "Bill created",
		"id", id, "name", b.Name, "amount_cents", b.Amount.Cents, "due_day", b.DueDay)
	return b, nil
}

// GetBill retrieves one bill by id.
func (s *Store) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+billColumns+`
		 FROM bills b JOIN categories c ON c.id = b.category_id
		 WHERE b.id = ?`, id)
	b, err := scanBill(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Bill{}, fmt.Errorf("bill %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Bill{}, fmt.Errorf("get bill %d: %w", id, err)
	}
	return b, nil
}

// ListBills returns all bills, unpaid first, then by due day.
func (s *Store) ListBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+`
		 FROM bills b JOIN categories c ON c.id = b.category_id
		 ORDER BY b.is_paid ASC, b.due_day ASC`)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

// ListUnpaidBills returns bills awaiting payment this cycle.
func (s *Store) ListUnpaidBills(ctx context.Context) ([]core.Bill, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+billColumns+`
		 FROM bills b JOIN categories c ON c.id = b.category_id
		 WHERE b.is_paid = 0
		 ORDER BY b.due_day ASC`)
	if err != nil {
		return nil, fmt.Errorf("list unpaid bills: %w", err)
	}
	defer rows.Close()
	return collectBills(rows)
}

// DeleteBill removes a bill.
func (s *Store) DeleteBill(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bill %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("bill %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Bill deleted", "id", id)
	return nil
}

// MarkBillPaid flips the bill's paid flag, records the payment date, and
// materializes the matching expense dated today, all in one transaction.
func (s *Store) MarkBillPaid(ctx context.Context, id int64, today core.Date) (core.Expense, error) {
	bill, err := s.GetBill(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}

	var saved core.Expense
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE bills SET is_paid = 1, last_paid_date = ? WHERE id = ?`, today.ISO(), id)
		if err != nil {
			return fmt.Errorf("mark bill %d paid: %w", id, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("mark bill %d paid: %w", id, err)
		}
		if affected == 0 {
			return fmt.Errorf("bill %d: %w", id, core.ErrNotFound)
		}

		saved, err = insertExpense(ctx, tx, core.Expense{
			Amount:        bill.Amount,
			Date:          today,
			Category:      bill.Category,
			PaymentMethod: "Bill Payment",
			Description:   "Bill payment: " + bill.Name,
		})
		return err
	})
	if err != nil {
		return core.Expense{}, err
	}

	slog.InfoContext(ctx, "Bill marked paid",
		"bill_id", id, "expense_id", saved.ID, "amount_cents", saved.Amount.Cents, "date", today.ISO())
	return saved, nil
}

func collectBills(rows *sql.Rows) ([]core.Bill, error) {
	var bills []core.Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func scanBill(row rowScanner) (core.Bill, error) {
	var b core.Bill
	var freq string
	var paid int
	var lastPaid sql.NullString
	if err := row.Scan(&b.ID, &b.Name, &b.Amount.Cents, &b.Category, &b.DueDay, &freq,
		&b.ReminderDays, &paid, &lastPaid, &b.Notes, &b.CreatedAt); err != nil {
		return core.Bill{}, err
	}
	b.Frequency = core.Frequency(freq)
	b.Paid = paid != 0
	if lastPaid.Valid && lastPaid.String != "" {
		lp, err := core.ParseDate(lastPaid.String)
		if err != nil {
			return core.Bill{}, fmt.Errorf("parse last paid date %q: %w", lastPaid.String, err)
		}
		b.LastPaid = lp
	}
	return b, nil
}
