package storage

import (
	"context"
	"database/sql"
	"fmt"

	"spendtrack/internal/core"
)

// MonthSummary aggregates spending for one calendar month: the total and the
// per-category breakdown, largest first. Percentages are computed here so
// every consumer sees the same rounding.
func (s *Store) MonthSummary(ctx context.Context, year, month int) (core.MonthSummary, error) {
	summary := core.MonthSummary{Year: year, Month: month}
	from := core.NewDate(year, month, 1)
	to := core.NewDate(year, month+1, 1)

	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM expenses WHERE date >= ? AND date < ?`,
		from.ISO(), to.ISO()).Scan(&total)
	if err != nil {
		return summary, fmt.Errorf("month total: %w", err)
	}
	summary.Total = core.Money{Cents: total.Int64}

	rows, err := s.db.QueryContext(ctx,
		`SELECT c.name, SUM(e.amount_cents) AS total
		 FROM expenses e JOIN categories c ON c.id = e.category_id
		 WHERE e.date >= ? AND e.date < ?
		 GROUP BY c.name
		 ORDER BY total DESC`, from.ISO(), to.ISO())
	if err != nil {
		return summary, fmt.Errorf("month category sums: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ca core.CategoryAmount
		if err := rows.Scan(&ca.Name, &ca.Amount.Cents); err != nil {
			return summary, fmt.Errorf("scan category sum: %w", err)
		}
		if summary.Total.Cents > 0 {
			ca.Percentage = float64(ca.Amount.Cents) / float64(summary.Total.Cents) * 100
		}
		summary.ByCategory = append(summary.ByCategory, ca)
	}
	return summary, rows.Err()
}
