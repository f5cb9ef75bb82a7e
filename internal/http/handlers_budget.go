package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"spendtrack/internal/core"
)

type budgetRequest struct {
	Category string `json:"category"`
	Amount   string `json:"amount"`
	Period   string `json:"period"`
}

type budgetResponse struct {
	ID          int64  `json:"id"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	AmountCents int64  `json:"amount_cents"`
	Period      string `json:"period"`
}

type budgetProgressResponse struct {
	Category       string  `json:"category"`
	Budget         string  `json:"budget"`
	Spent          string  `json:"spent"`
	Remaining      string  `json:"remaining"`
	RemainingCents int64   `json:"remaining_cents"`
	Percentage     float64 `json:"percentage"`
}

func toBudgetResponse(b core.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Category:    b.Category,
		Amount:      b.Amount.String(),
		AmountCents: b.Amount.Cents,
		Period:      b.Period,
	}
}

func toBudgetProgressResponse(p core.BudgetProgress) budgetProgressResponse {
	return budgetProgressResponse{
		Category:       p.Category,
		Budget:         p.Budget.String(),
		Spent:          p.Spent.String(),
		Remaining:      p.Remaining.String(),
		RemainingCents: p.Remaining.Cents,
		Percentage:     p.Percentage,
	}
}

// handleSetBudget creates or replaces the budget for a category+period.
func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	amount, err := core.ParseMoney(req.Amount)
	if err != nil {
		respondInvalid(w, "invalid amount: "+err.Error())
		return
	}

	budget := core.Budget{
		Category: sanitizeInput(req.Category),
		Amount:   amount,
		Period:   req.Period,
	}

	saved, err := s.svc.Budgets.Set(r.Context(), budget)
	if err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	respondJSON(w, http.StatusOK, toBudgetResponse(saved))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.svc.Budgets.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetResponse, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, toBudgetResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleBudgetProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := s.svc.Budgets.ListProgress(r.Context(), time.Now())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]budgetProgressResponse, 0, len(progress))
	for _, p := range progress {
		out = append(out, toBudgetProgressResponse(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")

	if err := s.svc.Budgets.Delete(r.Context(), category); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
