package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"spendtrack/internal/core"
)

type categoryResponse struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsCustom bool   `json:"is_custom"`
}

func toCategoryResponse(c core.Category) categoryResponse {
	return categoryResponse{ID: c.ID, Name: c.Name, IsCustom: c.IsCustom}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	created, err := s.svc.Categories.Create(r.Context(), sanitizeInput(req.Name))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, toCategoryResponse(created))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.Categories.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, toCategoryResponse(c))
	}
	respondJSON(w, http.StatusOK, out)
}

// handleRenameCategory renames a custom category; every expense and budget
// referencing it follows along.
func (s *Server) handleRenameCategory(w http.ResponseWriter, r *http.Request) {
	oldName := chi.URLParam(r, "name")

	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := s.svc.Categories.Rename(r.Context(), oldName, sanitizeInput(req.Name)); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.svc.Categories.Delete(r.Context(), name); err != nil {
		respondError(w, r, err)
		return
	}

	s.invalidateDerived()
	w.WriteHeader(http.StatusNoContent)
}
