package amqp

import (
	"encoding/json"
	"time"

	"spendtrack/internal/core"
)

// ExpenseCreatedMessage announces a newly recorded expense, whether entered
// manually, materialized from a recurring template, or created by a bill
// payment.
type ExpenseCreatedMessage struct {
	ID          int64     `json:"id"`
	AmountCents int64     `json:"amount_cents"`
	Date        string    `json:"date"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	IsRecurring bool      `json:"is_recurring"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewExpenseCreatedMessage builds the event for an expense row.
func NewExpenseCreatedMessage(e core.Expense) *ExpenseCreatedMessage {
	return &ExpenseCreatedMessage{
		ID:          e.ID,
		AmountCents: e.Amount.Cents,
		Date:        e.Date.ISO(),
		Category:    e.Category,
		Description: e.Description,
		IsRecurring: e.IsRecurring,
		Timestamp:   time.Now(),
	}
}

// BillReminderMessage announces an unpaid bill inside its reminder window.
type BillReminderMessage struct {
	BillID      int64     `json:"bill_id"`
	Name        string    `json:"name"`
	AmountCents int64     `json:"amount_cents"`
	Category    string    `json:"category"`
	DueDay      int       `json:"due_day"`
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewBillReminderMessage builds the reminder event for a bill with its
// current due status text.
func NewBillReminderMessage(b core.Bill, status string) *BillReminderMessage {
	return &BillReminderMessage{
		BillID:      b.ID,
		Name:        b.Name,
		AmountCents: b.Amount.Cents,
		Category:    b.Category,
		DueDay:      b.DueDay,
		Status:      status,
		Timestamp:   time.Now(),
	}
}

func (m *ExpenseCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *BillReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
