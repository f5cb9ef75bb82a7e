package core

// CategoryAmount is an amount aggregated by category name, with its share
// of the month total.
type CategoryAmount struct {
	Name       string
	Amount     Money
	Percentage float64
}

// MonthSummary is a compact spending summary for a specific year+month.
type MonthSummary struct {
	Year       int
	Month      int // 1-12
	Total      Money
	ByCategory []CategoryAmount
}

// Insight types mirror the cards the insights screen renders.
const (
	InsightTip         InsightType = "tip"
	InsightWarning     InsightType = "warning"
	InsightAchievement InsightType = "achievement"
	InsightTrend       InsightType = "trend"
)

type InsightType string

// Insight is a single heuristic observation about recent spending.
type Insight struct {
	Type   InsightType
	Title  string
	Detail string
}
