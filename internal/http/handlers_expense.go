package http

import (
	"net/http"

	"spendtrack/internal/core"
)

type expenseRequest struct {
	Amount        string `json:"amount"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
}

type expenseResponse struct {
	ID            int64  `json:"id"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Date          string `json:"date"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	IsRecurring   bool   `json:"is_recurring"`
	RecurringID   int64  `json:"recurring_id,omitempty"`
}

func toExpenseResponse(e core.Expense) expenseResponse {
	return expenseResponse{
		ID:            e.ID,
		Amount:        e.Amount.String(),
		AmountCents:   e.Amount.Cents,
		Date:          e.Date.ISO(),
		Category:      e.Category,
		PaymentMethod: e.PaymentMethod,
		Description:   e.Description,
		IsRecurring:   e.IsRecurring,
		RecurringID:   e.RecurringID,
	}
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondInvalid(w, "invalid amount: "+err.Error())
		return
	}
	date, err := core.ParseDate(req.Date)
	if err != nil {
		respondInvalid(w, "invalid date: expected yyyy-mm-dd")
		return
	}

	expense := core.Expense{
		Amount:        amount,
		Date:          date,
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Description:   sanitizeInput(req.Description),
	}

	created, err := s.svc.Expenses.Create(r.Context(), expense)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	respondJSON(w, http.StatusCreated, toExpenseResponse(created))
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)

	expenses, err := s.svc.Expenses.List(r.Context(), year, month)
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]expenseResponse, 0, len(expenses))
	for _, e := range expenses {
		out = append(out, toExpenseResponse(e))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	expense, err := s.svc.Expenses.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Expenses.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
