package core

import (
	"testing"
	"time"
)

func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-02-14")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2026 || d.Month() != 2 || d.Day() != 14 {
		t.Errorf("parsed %d-%d-%d, want 2026-2-14", d.Year(), d.Month(), d.Day())
	}
	if got := d.ISO(); got != "2026-02-14" {
		t.Errorf("ISO() = %q, want %q", got, "2026-02-14")
	}
}

func TestParseDateInvalid(t *testing.T) {
	for _, input := range []string{"", "14/02/2026", "2026-13-01", "yesterday"} {
		if _, err := ParseDate(input); err == nil {
			t.Errorf("ParseDate(%q) should fail", input)
		}
	}
}

func TestISOOrderingMatchesChronology(t *testing.T) {
	earlier := NewDate(2025, 9, 30)
	later := NewDate(2025, 10, 1)
	if !(earlier.ISO() < later.ISO()) {
		t.Errorf("expected %q < %q", earlier.ISO(), later.ISO())
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2026, 3, 15, 23, 45, 0, 0, time.Local)
	d := Today(now)
	if d.ISO() != "2026-03-15" {
		t.Errorf("Today() = %q, want 2026-03-15", d.ISO())
	}
}

func TestStartOfMonth(t *testing.T) {
	d := NewDate(2026, 7, 19)
	if got := d.StartOfMonth().ISO(); got != "2026-07-01" {
		t.Errorf("StartOfMonth() = %q, want 2026-07-01", got)
	}
}

func TestAddDaysAcrossMonthBoundary(t *testing.T) {
	d := NewDate(2026, 1, 30).AddDays(3)
	if d.ISO() != "2026-02-02" {
		t.Errorf("AddDays(3) = %q, want 2026-02-02", d.ISO())
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		year, month, want int
	}{
		{2026, 1, 31},
		{2026, 2, 28},
		{2024, 2, 29}, // leap year
		{2026, 4, 30},
		{2026, 12, 31},
	}
	for _, tt := range tests {
		if got := DaysInMonth(tt.year, tt.month); got != tt.want {
			t.Errorf("DaysInMonth(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
