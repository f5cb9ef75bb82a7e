package http

import (
	"net/http"
	"time"

	"spendtrack/internal/core"
	"spendtrack/internal/services"
)

type billRequest struct {
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	Category     string `json:"category"`
	DueDay       int    `json:"due_day"`
	Frequency    string `json:"frequency"`
	ReminderDays int    `json:"reminder_days"`
	Notes        string `json:"notes"`
}

type billResponse struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Amount       string `json:"amount"`
	AmountCents  int64  `json:"amount_cents"`
	Category     string `json:"category"`
	DueDay       int    `json:"due_day"`
	Frequency    string `json:"frequency"`
	ReminderDays int    `json:"reminder_days"`
	Paid         bool   `json:"paid"`
	LastPaid     string `json:"last_paid,omitempty"`
	Notes        string `json:"notes,omitempty"`
	Status       string `json:"status"`
}

func toBillResponse(b core.Bill, now time.Time) billResponse {
	resp := billResponse{
		ID:           b.ID,
		Name:         b.Name,
		Amount:       b.Amount.String(),
		AmountCents:  b.Amount.Cents,
		Category:     b.Category,
		DueDay:       b.DueDay,
		Frequency:    string(b.Frequency),
		ReminderDays: b.ReminderDays,
		Paid:         b.Paid,
		Notes:        b.Notes,
		Status:       services.DueStatus(b, now),
	}
	if !b.LastPaid.IsZero() {
		resp.LastPaid = b.LastPaid.ISO()
	}
	return resp
}

func (s *Server) handleCreateBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondInvalid(w, "invalid amount: "+err.Error())
		return
	}

	bill := core.Bill{
		Name:         sanitizeInput(req.Name),
		Amount:       amount,
		Category:     sanitizeInput(req.Category),
		DueDay:       req.DueDay,
		Frequency:    core.Frequency(req.Frequency),
		ReminderDays: req.ReminderDays,
		Notes:        sanitizeInput(req.Notes),
	}

	created, err := s.svc.Bills.Create(r.Context(), bill)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBillResponse(created, time.Now()))
}

func (s *Server) handleListBills(w http.ResponseWriter, r *http.Request) {
	bills, err := s.svc.Bills.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	now := time.Now()
	out := make([]billResponse, 0, len(bills))
	for _, b := range bills {
		out = append(out, toBillResponse(b, now))
	}
	respondJSON(w, http.StatusOK, out)
}

// handlePayBill marks the bill paid and returns the expense the payment
// created.
func (s *Server) handlePayBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	expense, err := s.svc.Bills.MarkPaid(r.Context(), id, time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	respondJSON(w, http.StatusOK, toExpenseResponse(expense))
}

func (s *Server) handleDeleteBill(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Bills.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
