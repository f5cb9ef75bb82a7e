package http

import (
	"fmt"
	"net/http"
	"time"

	"spendtrack/internal/core"
)

type categoryAmountResponse struct {
	Name        string  `json:"name"`
	Amount      string  `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Percentage  float64 `json:"percentage"`
}

type summaryResponse struct {
	Year       int                      `json:"year"`
	Month      int                      `json:"month"`
	Total      string                   `json:"total"`
	TotalCents int64                    `json:"total_cents"`
	ByCategory []categoryAmountResponse `json:"by_category"`
}

type insightResponse struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

func toSummaryResponse(summary core.MonthSummary) summaryResponse {
	resp := summaryResponse{
		Year:       summary.Year,
		Month:      summary.Month,
		Total:      summary.Total.String(),
		TotalCents: summary.Total.Cents,
		ByCategory: make([]categoryAmountResponse, 0, len(summary.ByCategory)),
	}
	for _, ca := range summary.ByCategory {
		resp.ByCategory = append(resp.ByCategory, categoryAmountResponse{
			Name:        ca.Name,
			Amount:      ca.Amount.String(),
			AmountCents: ca.Amount.Cents,
			Percentage:  ca.Percentage,
		})
	}
	return resp
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	year, month := parseYearMonth(r)
	key := fmt.Sprintf("summary:%04d-%02d", year, month)

	summary, ok := s.summaryCache.Get(key)
	if !ok {
		var err error
		summary, err = s.svc.Insights.Summary(r.Context(), year, month)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.summaryCache.Set(key, summary)
	}

	respondJSON(w, http.StatusOK, toSummaryResponse(summary))
}

func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	key := fmt.Sprintf("insights:%04d-%02d", now.Year(), int(now.Month()))

	insights, ok := s.insightCache.Get(key)
	if !ok {
		var err error
		insights, err = s.svc.Insights.Insights(r.Context(), now)
		if err != nil {
			respondError(w, r, err)
			return
		}
		s.insightCache.Set(key, insights)
	}

	out := make([]insightResponse, 0, len(insights))
	for _, in := range insights {
		out = append(out, insightResponse{
			Type:   string(in.Type),
			Title:  in.Title,
			Detail: in.Detail,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
