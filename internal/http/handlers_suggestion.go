package http

import (
	"net/http"

	"spendtrack/internal/core"
)

type suggestionRequest struct {
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
}

type suggestionResponse struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Confidence  float64 `json:"confidence"`
	UsageCount  int64   `json:"usage_count"`
}

func toSuggestionResponse(rule core.SuggestionRule) suggestionResponse {
	return suggestionResponse{
		ID:          rule.ID,
		Description: rule.Description,
		Category:    rule.Category,
		Confidence:  rule.Confidence,
		UsageCount:  rule.UsageCount,
	}
}

func (s *Server) handleAddSuggestion(w http.ResponseWriter, r *http.Request) {
	var req suggestionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	rule := core.SuggestionRule{
		Description: sanitizeInput(req.Description),
		Category:    sanitizeInput(req.Category),
		Confidence:  req.Confidence,
	}

	created, err := s.svc.Suggestions.Add(r.Context(), rule)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSuggestionResponse(created))
}

func (s *Server) handleListSuggestions(w http.ResponseWriter, r *http.Request) {
	rules, err := s.svc.Suggestions.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]suggestionResponse, 0, len(rules))
	for _, rule := range rules {
		out = append(out, toSuggestionResponse(rule))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleSuggest returns the best category for a free-text description.
// A hit reinforces the matched rule; a miss returns matched=false.
func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")

	category, err := s.svc.Suggestions.Suggest(r.Context(), q)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"category": category,
		"matched":  category != "",
	})
}

func (s *Server) handleDeleteSuggestion(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.svc.Suggestions.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
