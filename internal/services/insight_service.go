package services

import (
	"context"
	"fmt"
	"time"

	"spendtrack/internal/core"
)

// SummaryStore is the storage surface the insight service needs.
type SummaryStore interface {
	MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error)
}

// InsightService derives simple spending observations from month summaries:
// a month-over-month trend, a concentration warning when one category
// dominates, and a tip when the month is empty.
type InsightService struct {
	store SummaryStore
}

func NewInsightService(store SummaryStore) *InsightService {
	return &InsightService{store: store}
}

// Summary returns the aggregated view of one calendar month.
func (s *InsightService) Summary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	return s.store.MonthSummary(ctx, year, month)
}

// topCategoryShareThreshold is the share of the month total at which a
// single category triggers a concentration warning.
const topCategoryShareThreshold = 40.0

// Insights computes heuristics for the month containing now.
func (s *InsightService) Insights(ctx context.Context, now time.Time) ([]core.Insight, error) {
	year, month := now.Year(), int(now.Month())
	current, err := s.store.MonthSummary(ctx, year, month)
	if err != nil {
		return nil, fmt.Errorf("current month summary: %w", err)
	}

	prevYear, prevMonth := year, month-1
	if prevMonth == 0 {
		prevYear, prevMonth = year-1, 12
	}
	previous, err := s.store.MonthSummary(ctx, prevYear, prevMonth)
	if err != nil {
		return nil, fmt.Errorf("previous month summary: %w", err)
	}

	var insights []core.Insight

	if current.Total.Cents == 0 {
		insights = append(insights, core.Insight{
			Type:   core.InsightTip,
			Title:  "No expenses this month",
			Detail: "Log your spending to see trends and budget progress.",
		})
		return insights, nil
	}

	insights = append(insights, trendInsight(current.Total, previous.Total))

	if top := topCategory(current); top != nil && top.Percentage > topCategoryShareThreshold {
		insights = append(insights, core.Insight{
			Type:  core.InsightWarning,
			Title: fmt.Sprintf("%s dominates your spending", top.Name),
			Detail: fmt.Sprintf("%s accounts for %.0f%% of this month's total (%s).",
				top.Name, top.Percentage, top.Amount),
		})
	}

	return insights, nil
}

// trendStableBand is the relative change, in percent, treated as stable.
const trendStableBand = 5.0

func trendInsight(current, previous core.Money) core.Insight {
	if previous.Cents == 0 {
		return core.Insight{
			Type:   core.InsightTrend,
			Title:  "First full month of data",
			Detail: fmt.Sprintf("You have spent %s so far this month.", current),
		}
	}

	change := (float64(current.Cents) - float64(previous.Cents)) / float64(previous.Cents) * 100
	switch {
	case change > trendStableBand:
		return core.Insight{
			Type:   core.InsightTrend,
			Title:  "Spending is up",
			Detail: fmt.Sprintf("This month is %.0f%% above last month (%s vs %s).", change, current, previous),
		}
	case change < -trendStableBand:
		return core.Insight{
			Type:   core.InsightAchievement,
			Title:  "Spending is down",
			Detail: fmt.Sprintf("This month is %.0f%% below last month (%s vs %s).", -change, current, previous),
		}
	default:
		return core.Insight{
			Type:   core.InsightTrend,
			Title:  "Spending is steady",
			Detail: fmt.Sprintf("This month is within %.0f%% of last month.", trendStableBand),
		}
	}
}

func topCategory(summary core.MonthSummary) *core.CategoryAmount {
	if len(summary.ByCategory) == 0 {
		return nil
	}
	// ByCategory is ordered largest first.
	return &summary.ByCategory[0]
}
