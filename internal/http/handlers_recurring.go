package http

import (
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type recurringRequest struct {
	Amount        string `json:"amount"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	Frequency     string `json:"frequency"`
	NextDue       string `json:"next_due"`
}

type recurringResponse struct {
	ID            int64  `json:"id"`
	Amount        string `json:"amount"`
	AmountCents   int64  `json:"amount_cents"`
	Category      string `json:"category"`
	PaymentMethod string `json:"payment_method"`
	Description   string `json:"description"`
	Frequency     string `json:"frequency"`
	NextDue       string `json:"next_due"`
	Active        bool   `json:"active"`
	LastProcessed string `json:"last_processed,omitempty"`
}

func toRecurringResponse(re core.RecurringExpense) recurringResponse {
	resp := recurringResponse{
		ID:            re.ID,
		Amount:        re.Amount.String(),
		AmountCents:   re.Amount.Cents,
		Category:      re.Category,
		PaymentMethod: re.PaymentMethod,
		Description:   re.Description,
		Frequency:     string(re.Frequency),
		NextDue:       re.NextDue.ISO(),
		Active:        re.Active,
	}
	if !re.LastProcessed.IsZero() {
		resp.LastProcessed = re.LastProcessed.ISO()
	}
	return resp
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondInvalid(w, "invalid amount: "+err.Error())
		return
	}
	nextDue, err := core.ParseDate(req.NextDue)
	if err != nil {
		respondInvalid(w, "invalid next_due: expected yyyy-mm-dd")
		return
	}

	template := core.RecurringExpense{
		Amount:        amount,
		Category:      sanitizeInput(req.Category),
		PaymentMethod: sanitizeInput(req.PaymentMethod),
		Description:   sanitizeInput(req.Description),
		Frequency:     core.Frequency(req.Frequency),
		NextDue:       nextDue,
		Active:        true,
	}

	created, err := s.svc.Recurring.Create(r.Context(), template)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRecurringResponse(created))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	templates, err := s.svc.Recurring.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]recurringResponse, 0, len(templates))
	for _, re := range templates {
		out = append(out, toRecurringResponse(re))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var req struct {
		Active bool `json:"active"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.svc.Recurring.SetActive(r.Context(), id, req.Active); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProcessRecurring rolls all due templates forward immediately. The
// background worker does the same on a schedule; this endpoint exists for
// app-open catch-up.
func (s *Server) handleProcessRecurring(w http.ResponseWriter, r *http.Request) {
	processed, err := s.svc.Recurring.ProcessDue(r.Context(), time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	if processed > 0 {
		s.invalidateDerived()
	}
	respondJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Recurring.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
