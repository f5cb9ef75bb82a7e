package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"spendtrack/internal/core"
)

type fakeSummaryStore struct {
	summaries map[string]core.MonthSummary
}

func (f *fakeSummaryStore) MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	key := fmt.Sprintf("%04d-%02d", year, month)
	if s, ok := f.summaries[key]; ok {
		return s, nil
	}
	return core.MonthSummary{Year: year, Month: month}, nil
}

func summaryOf(year, month int, totalCents int64, categories ...core.CategoryAmount) core.MonthSummary {
	return core.MonthSummary{
		Year:       year,
		Month:      month,
		Total:      core.Money{Cents: totalCents},
		ByCategory: categories,
	}
}

func insightTypes(insights []core.Insight) []core.InsightType {
	types := make([]core.InsightType, 0, len(insights))
	for _, in := range insights {
		types = append(types, in.Type)
	}
	return types
}

func TestInsightsEmptyMonth(t *testing.T) {
	svc := NewInsightService(&fakeSummaryStore{summaries: map[string]core.MonthSummary{}})

	insights, err := svc.Insights(context.Background(), time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(insights) != 1 || insights[0].Type != core.InsightTip {
		t.Fatalf("insights = %v, want a single tip", insightTypes(insights))
	}
}

func TestInsightsTrend(t *testing.T) {
	tests := []struct {
		name          string
		currentCents  int64
		previousCents int64
		wantType      core.InsightType
		wantTitle     string
	}{
		{name: "spending up", currentCents: 60000, previousCents: 40000, wantType: core.InsightTrend, wantTitle: "Spending is up"},
		{name: "spending down", currentCents: 30000, previousCents: 40000, wantType: core.InsightAchievement, wantTitle: "Spending is down"},
		{name: "within stable band", currentCents: 41000, previousCents: 40000, wantType: core.InsightTrend, wantTitle: "Spending is steady"},
		{name: "first month of data", currentCents: 25000, previousCents: 0, wantType: core.InsightTrend, wantTitle: "First full month of data"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeSummaryStore{summaries: map[string]core.MonthSummary{
				"2026-06": summaryOf(2026, 6, tt.currentCents),
				"2026-05": summaryOf(2026, 5, tt.previousCents),
			}}
			svc := NewInsightService(store)

			insights, err := svc.Insights(context.Background(), time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
			if err != nil {
				t.Fatalf("Insights: %v", err)
			}
			if len(insights) == 0 {
				t.Fatal("expected at least the trend insight")
			}
			if insights[0].Type != tt.wantType || insights[0].Title != tt.wantTitle {
				t.Errorf("trend = %s %q, want %s %q", insights[0].Type, insights[0].Title, tt.wantType, tt.wantTitle)
			}
		})
	}
}

func TestInsightsPreviousMonthWrapsYear(t *testing.T) {
	store := &fakeSummaryStore{summaries: map[string]core.MonthSummary{
		"2026-01": summaryOf(2026, 1, 50000),
		"2025-12": summaryOf(2025, 12, 40000),
	}}
	svc := NewInsightService(store)

	insights, err := svc.Insights(context.Background(), time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	if len(insights) == 0 || insights[0].Title != "Spending is up" {
		t.Errorf("expected up trend against December, got %v", insights)
	}
}

func TestInsightsConcentrationWarning(t *testing.T) {
	store := &fakeSummaryStore{summaries: map[string]core.MonthSummary{
		"2026-06": summaryOf(2026, 6, 100000,
			core.CategoryAmount{Name: "Food", Amount: core.Money{Cents: 55000}, Percentage: 55},
			core.CategoryAmount{Name: "Transport", Amount: core.Money{Cents: 45000}, Percentage: 45},
		),
		"2026-05": summaryOf(2026, 5, 100000),
	}}
	svc := NewInsightService(store)

	insights, err := svc.Insights(context.Background(), time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}

	var warning *core.Insight
	for i := range insights {
		if insights[i].Type == core.InsightWarning {
			warning = &insights[i]
		}
	}
	if warning == nil {
		t.Fatalf("no concentration warning in %v", insightTypes(insights))
	}
	if warning.Title != "Food dominates your spending" {
		t.Errorf("warning title = %q", warning.Title)
	}
}

func TestInsightsNoWarningUnderThreshold(t *testing.T) {
	store := &fakeSummaryStore{summaries: map[string]core.MonthSummary{
		"2026-06": summaryOf(2026, 6, 100000,
			core.CategoryAmount{Name: "Food", Amount: core.Money{Cents: 40000}, Percentage: 40},
			core.CategoryAmount{Name: "Transport", Amount: core.Money{Cents: 35000}, Percentage: 35},
			core.CategoryAmount{Name: "Shopping", Amount: core.Money{Cents: 25000}, Percentage: 25},
		),
		"2026-05": summaryOf(2026, 5, 100000),
	}}
	svc := NewInsightService(store)

	insights, err := svc.Insights(context.Background(), time.Date(2026, 6, 20, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Insights: %v", err)
	}
	for _, in := range insights {
		if in.Type == core.InsightWarning {
			t.Errorf("40%% share must not warn: %+v", in)
		}
	}
}
