package services

import (
	"context"
	"sort"
	"testing"
	"time"

	"spendtrack/internal/core"
)

type fakeSuggestionStore struct {
	rules  []core.SuggestionRule
	nextID int64
}

func (f *fakeSuggestionStore) AddSuggestion(ctx context.Context, r core.SuggestionRule) (core.SuggestionRule, error) {
	for _, existing := range f.rules {
		if existing.Description == r.Description && existing.Category == r.Category {
			return core.SuggestionRule{}, core.ErrDuplicateRule
		}
	}
	f.nextID++
	r.ID = f.nextID
	if r.UsageCount < 1 {
		r.UsageCount = 1
	}
	f.rules = append(f.rules, r)
	return r, nil
}

// ListSuggestions returns rules in matching order: confidence desc, then
// usage count desc, mirroring the storage query.
func (f *fakeSuggestionStore) ListSuggestions(ctx context.Context) ([]core.SuggestionRule, error) {
	out := make([]core.SuggestionRule, len(f.rules))
	copy(out, f.rules)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].UsageCount > out[j].UsageCount
	})
	return out, nil
}

func (f *fakeSuggestionStore) DeleteSuggestion(ctx context.Context, id int64) error {
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules = append(f.rules[:i], f.rules[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeSuggestionStore) RecordSuggestionUsage(ctx context.Context, id int64, when time.Time) error {
	for i := range f.rules {
		if f.rules[i].ID == id {
			f.rules[i].UsageCount++
			f.rules[i].LastUsed = when
			return nil
		}
	}
	return core.ErrNotFound
}

func newSuggestionFixture(t *testing.T, rules ...core.SuggestionRule) (*SuggestionService, *fakeSuggestionStore) {
	t.Helper()
	store := &fakeSuggestionStore{}
	for _, r := range rules {
		if _, err := store.AddSuggestion(context.Background(), r); err != nil {
			t.Fatalf("seed rule %q: %v", r.Description, err)
		}
	}
	return NewSuggestionService(store), store
}

func TestFindMatchPrefersHigherConfidence(t *testing.T) {
	// "food truck" is the longer keyword but wins on confidence.
	svc, _ := newSuggestionFixture(t,
		core.SuggestionRule{Description: "food", Category: "Food", Confidence: 0.5},
		core.SuggestionRule{Description: "food truck", Category: "Shopping", Confidence: 0.9},
	)

	rule, err := svc.FindMatch(context.Background(), "food truck tacos")
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if rule == nil || rule.Category != "Shopping" {
		t.Fatalf("matched %+v, want the 0.9 Shopping rule", rule)
	}
}

func TestFindMatchBidirectionalSubstring(t *testing.T) {
	svc, _ := newSuggestionFixture(t,
		core.SuggestionRule{Description: "starbucks coffee", Category: "Food", Confidence: 0.8},
	)

	// Input shorter than the keyword still matches: keyword contains input.
	rule, err := svc.FindMatch(context.Background(), "starbucks")
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if rule == nil || rule.Category != "Food" {
		t.Fatalf("matched %+v, want Food", rule)
	}
}

func TestFindMatchCaseInsensitive(t *testing.T) {
	svc, _ := newSuggestionFixture(t,
		core.SuggestionRule{Description: "uber", Category: "Transport", Confidence: 0.9},
	)

	rule, err := svc.FindMatch(context.Background(), "UBER trip home")
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if rule == nil || rule.Category != "Transport" {
		t.Fatalf("matched %+v, want Transport", rule)
	}
}

func TestFindMatchEqualConfidenceUsageTiebreak(t *testing.T) {
	svc, store := newSuggestionFixture(t,
		core.SuggestionRule{Description: "pizza", Category: "Food", Confidence: 0.7},
		core.SuggestionRule{Description: "pizzeria", Category: "Entertainment", Confidence: 0.7},
	)

	// Reinforce the second rule so it outranks the first at equal confidence.
	for i := 0; i < 3; i++ {
		if err := svc.RecordUsage(context.Background(), 2); err != nil {
			t.Fatalf("RecordUsage: %v", err)
		}
	}

	rule, err := svc.FindMatch(context.Background(), "pizzeria napoli")
	if err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if rule == nil || rule.ID != 2 {
		t.Fatalf("matched %+v, want the reinforced rule", rule)
	}
	if store.rules[1].UsageCount != 4 {
		t.Errorf("usage count = %d, want 4", store.rules[1].UsageCount)
	}
}

func TestFindMatchNoMatchAndEmptyInput(t *testing.T) {
	svc, _ := newSuggestionFixture(t,
		core.SuggestionRule{Description: "coffee", Category: "Food", Confidence: 0.8},
	)

	for _, input := range []string{"", "   ", "plumber visit"} {
		rule, err := svc.FindMatch(context.Background(), input)
		if err != nil {
			t.Fatalf("FindMatch(%q): %v", input, err)
		}
		if rule != nil {
			t.Errorf("FindMatch(%q) = %+v, want nil", input, rule)
		}
	}
}

func TestFindMatchDoesNotReinforce(t *testing.T) {
	svc, store := newSuggestionFixture(t,
		core.SuggestionRule{Description: "coffee", Category: "Food", Confidence: 0.8},
	)

	if _, err := svc.FindMatch(context.Background(), "morning coffee"); err != nil {
		t.Fatalf("FindMatch: %v", err)
	}
	if store.rules[0].UsageCount != 1 {
		t.Errorf("FindMatch must not write; usage count = %d, want 1", store.rules[0].UsageCount)
	}
}

func TestSuggestReinforcesMatch(t *testing.T) {
	svc, store := newSuggestionFixture(t,
		core.SuggestionRule{Description: "coffee", Category: "Food", Confidence: 0.8},
	)

	category, err := svc.Suggest(context.Background(), "coffee with friends")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if category != "Food" {
		t.Errorf("Suggest = %q, want Food", category)
	}
	if store.rules[0].UsageCount != 2 {
		t.Errorf("usage count after Suggest = %d, want 2", store.rules[0].UsageCount)
	}
	if store.rules[0].LastUsed.IsZero() {
		t.Error("last used should be stamped")
	}
}

func TestSuggestNoMatchReturnsEmpty(t *testing.T) {
	svc, _ := newSuggestionFixture(t)

	category, err := svc.Suggest(context.Background(), "anything")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if category != "" {
		t.Errorf("Suggest = %q, want empty", category)
	}
}

func TestAddRejectsInvalidConfidence(t *testing.T) {
	svc, _ := newSuggestionFixture(t)

	bad := core.SuggestionRule{Description: "x", Category: "Food", Confidence: 1.5}
	if _, err := svc.Add(context.Background(), bad); err != core.ErrInvalidConfidence {
		t.Errorf("Add error = %v, want ErrInvalidConfidence", err)
	}
}
