package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/core"
)

// Bill due status labels, in the exact wording the bill list renders.
const (
	BillStatusPaid     = "Paid"
	BillStatusDueToday = "Due Today"
	BillStatusOverdue  = "Overdue"
)

// BillStore is the storage surface the bill service needs.
type BillStore interface {
	CreateBill(ctx context.Context, b core.Bill) (core.Bill, error)
	GetBill(ctx context.Context, id int64) (core.Bill, error)
	ListBills(ctx context.Context) ([]core.Bill, error)
	ListUnpaidBills(ctx context.Context) ([]core.Bill, error)
	DeleteBill(ctx context.Context, id int64) error
	MarkBillPaid(ctx context.Context, id int64, today core.Date) (core.Expense, error)
}

// BillService tracks bills, their due status, and payment materialization.
type BillService struct {
	store  BillStore
	events EventPublisher
}

func NewBillService(store BillStore, events EventPublisher) *BillService {
	return &BillService{store: store, events: events}
}

// Create validates and saves a bill.
func (s *BillService) Create(ctx context.Context, b core.Bill) (core.Bill, error) {
	if err := b.Validate(); err != nil {
		return core.Bill{}, err
	}
	return s.store.CreateBill(ctx, b)
}

// List returns all bills.
func (s *BillService) List(ctx context.Context) ([]core.Bill, error) {
	return s.store.ListBills(ctx)
}

// Delete removes a bill.
func (s *BillService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteBill(ctx, id)
}

// MarkPaid flips the bill's paid flag and materializes the matching expense
// dated today, as one unit of work. It returns the created expense.
func (s *BillService) MarkPaid(ctx context.Context, id int64, now time.Time) (core.Expense, error) {
	expense, err := s.store.MarkBillPaid(ctx, id, core.Today(now))
	if err != nil {
		return core.Expense{}, err
	}

	if s.events != nil {
		if err := s.events.PublishExpenseCreated(ctx, expense); err != nil {
			slog.ErrorContext(ctx, "Failed to publish bill payment event",
				"bill_id", id, "expense_id", expense.ID, "error", err)
		}
	}
	return expense, nil
}

// EffectiveDueDay clamps the bill's due day to the last day of the given
// month, so a bill due on the 31st behaves as due on Feb 28/29 in February.
func EffectiveDueDay(b core.Bill, year, month int) int {
	day := b.DueDay
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return day
}

// DueStatus classifies a bill against today's calendar position within the
// current month: Paid, Due Today, Overdue, "Due in N days" inside a 3-day
// window, else "Due on D".
func DueStatus(b core.Bill, now time.Time) string {
	if b.Paid {
		return BillStatusPaid
	}

	today := core.Today(now)
	dueDay := EffectiveDueDay(b, today.Year(), today.Month())

	switch {
	case today.Day() == dueDay:
		return BillStatusDueToday
	case today.Day() > dueDay:
		return BillStatusOverdue
	}

	daysUntil := dueDay - today.Day()
	if daysUntil <= 3 {
		return fmt.Sprintf("Due in %d days", daysUntil)
	}
	return fmt.Sprintf("Due on %d", dueDay)
}

// DueForReminder returns the unpaid bills inside their reminder window:
// overdue, due today, or due within the bill's reminder_days.
func (s *BillService) DueForReminder(ctx context.Context, now time.Time) ([]core.Bill, error) {
	unpaid, err := s.store.ListUnpaidBills(ctx)
	if err != nil {
		return nil, fmt.Errorf("list unpaid bills: %w", err)
	}

	today := core.Today(now)
	var due []core.Bill
	for _, b := range unpaid {
		dueDay := EffectiveDueDay(b, today.Year(), today.Month())
		daysUntil := dueDay - today.Day()
		if daysUntil <= b.ReminderDays {
			due = append(due, b)
		}
	}
	return due, nil
}
