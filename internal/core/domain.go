package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily     Frequency = "daily"
	Weekly    Frequency = "weekly"
	Monthly   Frequency = "monthly"
	Quarterly Frequency = "quarterly"
	Yearly    Frequency = "yearly"
)

// PeriodMonthly is the only budget period the application supports.
const PeriodMonthly = "monthly"

type (
	Frequency string

	Category struct {
		ID        int64
		Name      string
		IsCustom  bool
		CreatedAt time.Time
	}

	Expense struct {
		ID            int64
		Amount        Money
		Date          Date
		Category      string // category name, resolved to an id at the storage layer
		PaymentMethod string
		Description   string
		IsRecurring   bool
		RecurringID   int64 // 0 when not materialized from a template
		CreatedAt     time.Time
	}

	Budget struct {
		ID        int64
		Category  string
		Amount    Money
		Period    string
		CreatedAt time.Time
	}

	// BudgetProgress is the derived view of a budget against the current
	// calendar month. Remaining is never clamped; Percentage is capped at 100.
	BudgetProgress struct {
		Category   string
		Budget     Money
		Spent      Money
		Remaining  Money
		Percentage float64
	}

	RecurringExpense struct {
		ID            int64
		Amount        Money
		Category      string
		PaymentMethod string
		Description   string
		Frequency     Frequency
		NextDue       Date
		Active        bool
		LastProcessed Date // zero when never processed
		CreatedAt     time.Time
	}

	Bill struct {
		ID           int64
		Name         string
		Amount       Money
		Category     string
		DueDay       int // day of month, 1..31, clamped to shorter months
		Frequency    Frequency
		ReminderDays int
		Paid         bool
		LastPaid     Date // zero when never paid
		Notes        string
		CreatedAt    time.Time
	}

	// SuggestionRule maps a free-text keyword to a category name. The
	// category is a plain name rather than a relational reference: rules
	// are fuzzy hints and may outlive the category they point at.
	SuggestionRule struct {
		ID          int64
		Description string
		Category    string
		Confidence  float64
		UsageCount  int64
		LastUsed    time.Time
		CreatedAt   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyCategory      = errors.New("empty category")
	ErrEmptyPaymentMethod = errors.New("empty payment method")
	ErrEmptyName          = errors.New("empty name")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 200 characters)")
	ErrInvalidFrequency   = errors.New("invalid frequency")
	ErrInvalidDueDay      = errors.New("due day must be between 1 and 31")
	ErrInvalidConfidence  = errors.New("confidence must be between 0 and 1")
	ErrInvalidPeriod      = errors.New("invalid budget period")
	ErrInvalidDate        = errors.New("invalid date")

	ErrNotFound        = errors.New("not found")
	ErrDefaultCategory = errors.New("default categories cannot be renamed or deleted")
	ErrCategoryExists  = errors.New("category already exists")
	ErrDuplicateRule   = errors.New("suggestion rule already exists")
)

// CategoryInUseError rejects a category deletion and reports the exact
// number of rows still referencing it.
type CategoryInUseError struct {
	Name     string
	Expenses int64
	Budgets  int64
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("category %q is in use by %d expense(s) and %d budget(s)", e.Name, e.Expenses, e.Budgets)
}

// ValidForRecurring reports whether f is a valid recurring-template frequency.
func (f Frequency) ValidForRecurring() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// ValidForBill reports whether f is a valid bill cycle.
func (f Frequency) ValidForBill() bool {
	switch f {
	case Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(e.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	if len(e.Description) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}

func (b Budget) Validate() error {
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.Period != PeriodMonthly {
		return ErrInvalidPeriod
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if err := re.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(re.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(re.PaymentMethod) == "" {
		return ErrEmptyPaymentMethod
	}
	if len(strings.TrimSpace(re.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(re.Description) > 200 {
		return ErrDescriptionTooLong
	}
	if !re.Frequency.ValidForRecurring() {
		return ErrInvalidFrequency
	}
	if err := re.NextDue.Validate(); err != nil {
		return err
	}
	return nil
}

func (b Bill) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyName
	}
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(b.Category) == "" {
		return ErrEmptyCategory
	}
	if b.DueDay < 1 || b.DueDay > 31 {
		return ErrInvalidDueDay
	}
	if !b.Frequency.ValidForBill() {
		return ErrInvalidFrequency
	}
	if b.ReminderDays < 0 {
		return errors.New("reminder days cannot be negative")
	}
	return nil
}

func (r SuggestionRule) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrEmptyCategory
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return ErrInvalidConfidence
	}
	return nil
}
