// Package services provides business logic over the storage layer: expense
// orchestration, recurring rollforward, bill payment tracking, category
// suggestion, and spending insights.
//
// This file implements the schedule advance strategy for recurring
// templates. Each frequency has its own advancer computing the next due
// date from a given day.
package services

import (
	"fmt"

	"spendtrack/internal/core"
)

// ScheduleAdvancer computes the next due date for one frequency type.
type ScheduleAdvancer interface {
	// Next returns the first due date strictly after from.
	Next(from core.Date) core.Date
}

// DailyAdvancer advances by one calendar day.
type DailyAdvancer struct{}

func (DailyAdvancer) Next(from core.Date) core.Date {
	return from.AddDays(1)
}

// WeeklyAdvancer advances by seven calendar days.
type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(from core.Date) core.Date {
	return from.AddDays(7)
}

// MonthlyAdvancer advances by one month, clamping the day when the target
// month is shorter (Jan 31 -> Feb 28/29).
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(from core.Date) core.Date {
	return addMonthsClamped(from, 1)
}

// QuarterlyAdvancer advances by three months with the same day clamping.
// Used for bill cycles, not recurring templates.
type QuarterlyAdvancer struct{}

func (QuarterlyAdvancer) Next(from core.Date) core.Date {
	return addMonthsClamped(from, 3)
}

// YearlyAdvancer advances by one year, clamping Feb 29 to Feb 28 in
// non-leap years.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Next(from core.Date) core.Date {
	return addMonthsClamped(from, 12)
}

func addMonthsClamped(from core.Date, months int) core.Date {
	year := from.Year()
	month := from.Month() + months
	for month > 12 {
		month -= 12
		year++
	}
	day := from.Day()
	if last := core.DaysInMonth(year, month); day > last {
		day = last
	}
	return core.NewDate(year, month, day)
}

var scheduleAdvancers = map[core.Frequency]ScheduleAdvancer{
	core.Daily:     DailyAdvancer{},
	core.Weekly:    WeeklyAdvancer{},
	core.Monthly:   MonthlyAdvancer{},
	core.Quarterly: QuarterlyAdvancer{},
	core.Yearly:    YearlyAdvancer{},
}

// NextRun returns the next due date for the given frequency, advancing from
// the given date. Rollforward always advances from today, so overdue
// templates collapse to one catch-up run and land one period past today.
func NextRun(frequency core.Frequency, from core.Date) (core.Date, error) {
	advancer, ok := scheduleAdvancers[frequency]
	if !ok {
		return core.Date{}, fmt.Errorf("unknown frequency: %s", frequency)
	}
	return advancer.Next(from), nil
}
