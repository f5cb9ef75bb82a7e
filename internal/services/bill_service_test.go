package services

import (
	"context"
	"testing"
	"time"

	"spendtrack/internal/core"
)

func testBill(dueDay, reminderDays int, paid bool) core.Bill {
	return core.Bill{
		ID:           1,
		Name:         "Electricity",
		Amount:       core.Money{Cents: 8500},
		Category:     "Bills",
		DueDay:       dueDay,
		Frequency:    core.Monthly,
		ReminderDays: reminderDays,
		Paid:         paid,
	}
}

func TestDueStatus(t *testing.T) {
	// June 2026 has 30 days.
	at := func(day int) time.Time {
		return time.Date(2026, 6, day, 12, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name string
		bill core.Bill
		now  time.Time
		want string
	}{
		{name: "paid wins over everything", bill: testBill(1, 3, true), now: at(20), want: "Paid"},
		{name: "due today", bill: testBill(15, 3, false), now: at(15), want: "Due Today"},
		{name: "overdue", bill: testBill(10, 3, false), now: at(15), want: "Overdue"},
		{name: "due in 1 day", bill: testBill(16, 3, false), now: at(15), want: "Due in 1 days"},
		{name: "due in 3 days", bill: testBill(18, 3, false), now: at(15), want: "Due in 3 days"},
		{name: "outside window", bill: testBill(19, 3, false), now: at(15), want: "Due on 19"},
		{name: "far out", bill: testBill(28, 3, false), now: at(1), want: "Due on 28"},
		{name: "day 31 clamps to 30 and is due today", bill: testBill(31, 3, false), now: at(30), want: "Due Today"},
		{name: "day 31 clamps in february", bill: testBill(31, 3, false), now: time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC), want: "Due Today"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DueStatus(tt.bill, tt.now); got != tt.want {
				t.Errorf("DueStatus = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEffectiveDueDay(t *testing.T) {
	b := testBill(31, 0, false)
	if got := EffectiveDueDay(b, 2026, 2); got != 28 {
		t.Errorf("February clamp = %d, want 28", got)
	}
	if got := EffectiveDueDay(b, 2024, 2); got != 29 {
		t.Errorf("leap February clamp = %d, want 29", got)
	}
	if got := EffectiveDueDay(b, 2026, 1); got != 31 {
		t.Errorf("January = %d, want 31", got)
	}
}

type fakeBillStore struct {
	bills    []core.Bill
	payments []core.Expense
}

func (f *fakeBillStore) CreateBill(ctx context.Context, b core.Bill) (core.Bill, error) {
	b.ID = int64(len(f.bills) + 1)
	f.bills = append(f.bills, b)
	return b, nil
}

func (f *fakeBillStore) GetBill(ctx context.Context, id int64) (core.Bill, error) {
	for _, b := range f.bills {
		if b.ID == id {
			return b, nil
		}
	}
	return core.Bill{}, core.ErrNotFound
}

func (f *fakeBillStore) ListBills(ctx context.Context) ([]core.Bill, error) {
	return f.bills, nil
}

func (f *fakeBillStore) ListUnpaidBills(ctx context.Context) ([]core.Bill, error) {
	var unpaid []core.Bill
	for _, b := range f.bills {
		if !b.Paid {
			unpaid = append(unpaid, b)
		}
	}
	return unpaid, nil
}

func (f *fakeBillStore) DeleteBill(ctx context.Context, id int64) error {
	for i := range f.bills {
		if f.bills[i].ID == id {
			f.bills = append(f.bills[:i], f.bills[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeBillStore) MarkBillPaid(ctx context.Context, id int64, today core.Date) (core.Expense, error) {
	for i := range f.bills {
		if f.bills[i].ID == id {
			f.bills[i].Paid = true
			f.bills[i].LastPaid = today
			expense := core.Expense{
				ID:            int64(len(f.payments) + 1),
				Amount:        f.bills[i].Amount,
				Date:          today,
				Category:      f.bills[i].Category,
				PaymentMethod: "Bill Payment",
				Description:   "Bill payment: " + f.bills[i].Name,
			}
			f.payments = append(f.payments, expense)
			return expense, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func TestMarkPaidMaterializesExpense(t *testing.T) {
	store := &fakeBillStore{bills: []core.Bill{testBill(15, 3, false)}}
	svc := NewBillService(store, nil)

	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)
	expense, err := svc.MarkPaid(context.Background(), 1, now)
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}

	if expense.Amount.Cents != 8500 {
		t.Errorf("expense amount = %d, want 8500", expense.Amount.Cents)
	}
	if expense.Date.ISO() != "2026-06-15" {
		t.Errorf("expense date = %s, want 2026-06-15", expense.Date.ISO())
	}
	if expense.Description != "Bill payment: Electricity" {
		t.Errorf("expense description = %q", expense.Description)
	}
	if !store.bills[0].Paid {
		t.Error("bill should be marked paid")
	}
	if got := DueStatus(store.bills[0], now); got != BillStatusPaid {
		t.Errorf("status after payment = %q, want Paid", got)
	}
}

func TestMarkPaidUnknownBill(t *testing.T) {
	svc := NewBillService(&fakeBillStore{}, nil)
	if _, err := svc.MarkPaid(context.Background(), 42, time.Now()); err != core.ErrNotFound {
		t.Errorf("MarkPaid error = %v, want ErrNotFound", err)
	}
}

func TestDueForReminder(t *testing.T) {
	now := time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

	overdue := testBill(10, 0, false)
	overdue.ID = 1
	dueSoon := testBill(17, 3, false)
	dueSoon.ID = 2
	farOut := testBill(25, 3, false)
	farOut.ID = 3
	alreadyPaid := testBill(16, 3, true)
	alreadyPaid.ID = 4

	store := &fakeBillStore{bills: []core.Bill{overdue, dueSoon, farOut, alreadyPaid}}
	svc := NewBillService(store, nil)

	due, err := svc.DueForReminder(context.Background(), now)
	if err != nil {
		t.Fatalf("DueForReminder: %v", err)
	}

	ids := make(map[int64]bool)
	for _, b := range due {
		ids[b.ID] = true
	}
	if len(due) != 2 || !ids[1] || !ids[2] {
		t.Errorf("reminder set = %v, want bills 1 and 2", ids)
	}
}
