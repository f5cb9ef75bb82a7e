package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"spendtrack/internal/core"
)

// SuggestionStore is the storage surface the suggestion service needs.
// ListSuggestions must return rules in matching order: confidence DESC,
// usage count DESC.
type SuggestionStore interface {
	AddSuggestion(ctx context.Context, r core.SuggestionRule) (core.SuggestionRule, error)
	ListSuggestions(ctx context.Context) ([]core.SuggestionRule, error)
	DeleteSuggestion(ctx context.Context, id int64) error
	RecordSuggestionUsage(ctx context.Context, id int64, when time.Time) error
}

// SuggestionService infers a category from free-text expense descriptions.
// Matching is split from reinforcement: FindMatch never writes, RecordUsage
// is the explicit write, and Suggest composes the two.
type SuggestionService struct {
	store SuggestionStore
	now   func() time.Time
}

func NewSuggestionService(store SuggestionStore) *SuggestionService {
	return &SuggestionService{store: store, now: time.Now}
}

// Add validates and saves a rule.
func (s *SuggestionService) Add(ctx context.Context, r core.SuggestionRule) (core.SuggestionRule, error) {
	if err := r.Validate(); err != nil {
		return core.SuggestionRule{}, err
	}
	return s.store.AddSuggestion(ctx, r)
}

// List returns all rules in matching order.
func (s *SuggestionService) List(ctx context.Context) ([]core.SuggestionRule, error) {
	return s.store.ListSuggestions(ctx)
}

// Delete removes a rule.
func (s *SuggestionService) Delete(ctx context.Context, id int64) error {
	return s.store.DeleteSuggestion(ctx, id)
}

// FindMatch returns the first rule matching the text, or nil without error
// when nothing matches. Rules are checked in confidence/usage order and the
// first match wins; the test is a bidirectional case-insensitive substring,
// so a short rule like "food" matches any text containing it and a rule
// longer than the input can match too.
func (s *SuggestionService) FindMatch(ctx context.Context, text string) (*core.SuggestionRule, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}

	rules, err := s.store.ListSuggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load suggestion rules: %w", err)
	}

	lowered := strings.ToLower(text)
	for i := range rules {
		keyword := strings.ToLower(rules[i].Description)
		if strings.Contains(lowered, keyword) || strings.Contains(keyword, lowered) {
			return &rules[i], nil
		}
	}
	return nil, nil
}

// RecordUsage reinforces a matched rule: usage count up, last-used stamped.
func (s *SuggestionService) RecordUsage(ctx context.Context, id int64) error {
	return s.store.RecordSuggestionUsage(ctx, id, s.now())
}

// Suggest returns the category for the text, or "" when no rule matches.
// A successful match is reinforced; a failed reinforcement write is logged
// but does not discard the suggestion.
func (s *SuggestionService) Suggest(ctx context.Context, text string) (string, error) {
	rule, err := s.FindMatch(ctx, text)
	if err != nil {
		return "", err
	}
	if rule == nil {
		return "", nil
	}

	if err := s.RecordUsage(ctx, rule.ID); err != nil {
		slog.ErrorContext(ctx, "Failed to record suggestion usage",
			"rule_id", rule.ID, "error", err)
	}
	return rule.Category, nil
}
