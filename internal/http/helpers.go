package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"spendtrack/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			slog.Error("Failed to encode response", "error", err)
		}
	}
}

// respondError maps domain errors onto HTTP statuses: validation failures
// are 422, missing rows 404, integrity conflicts 409, everything else a
// generic 500 so internals never leak to the client.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)

	msg := err.Error()
	if status == http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "Request failed",
			"method", r.Method, "path", r.URL.Path, "error", err)
		msg = "operation failed"
	}

	respondJSON(w, status, errorResponse{Error: msg})
}

func statusForError(err error) int {
	var inUse *core.CategoryInUseError
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrCategoryExists),
		errors.Is(err, core.ErrDefaultCategory),
		errors.Is(err, core.ErrDuplicateRule),
		errors.As(err, &inUse):
		return http.StatusConflict
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrEmptyPaymentMethod),
		errors.Is(err, core.ErrEmptyName),
		errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrDescriptionTooLong),
		errors.Is(err, core.ErrInvalidFrequency),
		errors.Is(err, core.ErrInvalidDueDay),
		errors.Is(err, core.ErrInvalidConfidence),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrInvalidDate):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondInvalid rejects a syntactically valid request whose fields do not
// parse into domain values.
func respondInvalid(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
		return 0, false
	}
	return id, true
}

// parseYearMonth extracts year and month from query parameters, defaulting
// to the current calendar month.
func parseYearMonth(r *http.Request) (year, month int) {
	now := time.Now()
	year = now.Year()
	month = int(now.Month())

	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		if y, err := strconv.Atoi(v); err == nil {
			year = y
		}
	}
	if v := strings.TrimSpace(r.URL.Query().Get("month")); v != "" {
		if m, err := strconv.Atoi(v); err == nil && m >= 1 && m <= 12 {
			month = m
		}
	}

	return year, month
}

// sanitizeInput trims whitespace and strips control characters.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
