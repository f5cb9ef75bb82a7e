package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"spendtrack/internal/core"
)

// AddSuggestion inserts a suggestion rule. The pair (description, category)
// is unique.
func (s *Store) AddSuggestion(ctx context.Context, r core.SuggestionRule) (core.SuggestionRule, error) {
	if r.UsageCount < 1 {
		r.UsageCount = 1
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO expense_suggestions (description, suggested_category, confidence, usage_count)
		 VALUES (?, ?, ?, ?)`,
		r.Description, r.Category, r.Confidence, r.UsageCount)
	if isUniqueViolation(err) {
		return core.SuggestionRule{}, fmt.Errorf("rule %q -> %q: %w", r.Description, r.Category, core.ErrDuplicateRule)
	}
	if err != nil {
		return core.SuggestionRule{}, fmt.Errorf("insert suggestion rule: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.SuggestionRule{}, fmt.Errorf("insert suggestion rule id: %w", err)
	}
	r.ID = id

	slog.InfoContext(ctx, "Suggestion rule added",
		"id", id, "description", r.Description, "category", r.Category, "confidence", r.Confidence)
	return r, nil
}

// ListSuggestions returns all rules in matching order: highest confidence
// first, most used first within equal confidence.
func (s *Store) ListSuggestions(ctx context.Context) ([]core.SuggestionRule, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, description, suggested_category, confidence, usage_count, last_used, created_at
		 FROM expense_suggestions
		 ORDER BY confidence DESC, usage_count DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list suggestion rules: %w", err)
	}
	defer rows.Close()

	var rules []core.SuggestionRule
	for rows.Next() {
		var r core.SuggestionRule
		if err := rows.Scan(&r.ID, &r.Description, &r.Category, &r.Confidence,
			&r.UsageCount, &r.LastUsed, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion rule: %w", err)
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// DeleteSuggestion removes a rule.
func (s *Store) DeleteSuggestion(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM expense_suggestions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete suggestion rule %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete suggestion rule %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("suggestion rule %d: %w", id, core.ErrNotFound)
	}
	slog.InfoContext(ctx, "Suggestion rule deleted", "id", id)
	return nil
}

// RecordSuggestionUsage is the explicit reinforcement write: it bumps the
// rule's usage count and stamps when it last matched. Kept separate from the
// match query so lookups stay side-effect free.
func (s *Store) RecordSuggestionUsage(ctx context.Context, id int64, when time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expense_suggestions SET usage_count = usage_count + 1, last_used = ? WHERE id = ?`,
		when.UTC(), id)
	if err != nil {
		return fmt.Errorf("record suggestion usage %d: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("record suggestion usage %d: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("suggestion rule %d: %w", id, core.ErrNotFound)
	}
	return nil
}
