package core

import (
	"errors"
	"testing"
)

func TestParseDecimalToCents(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{name: "plain decimal", input: "12.34", want: 1234},
		{name: "comma separator", input: "12,34", want: 1234},
		{name: "whole number", input: "10", want: 1000},
		{name: "leading dot", input: ".5", want: 50},
		{name: "single fraction digit", input: "3.5", want: 350},
		{name: "surrounding whitespace", input: "  7.25  ", want: 725},
		{name: "third decimal rounds up", input: "12.345", want: 1235},
		{name: "third decimal rounds down", input: "12.344", want: 1234},
		{name: "sub-cent rounds to one", input: "0.005", want: 1},
		{name: "empty", input: "", wantErr: true},
		{name: "zero", input: "0", wantErr: true},
		{name: "zero decimal", input: "0.00", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
		{name: "explicit plus", input: "+5", wantErr: true},
		{name: "letters", input: "abc", wantErr: true},
		{name: "two separators", input: "1.2.3", wantErr: true},
		{name: "mixed garbage", input: "12.3a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDecimalToCents(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Fatalf("ParseDecimalToCents(%q) error = %v, want ErrInvalidAmount", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDecimalToCents(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDecimalToCents(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{1234, "12.34"},
		{100, "1.00"},
		{5, "0.05"},
		{-250, "-2.50"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := (Money{Cents: tt.cents}).String(); got != tt.want {
			t.Errorf("Money{%d}.String() = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestMoneyValidate(t *testing.T) {
	if err := (Money{Cents: 1}).Validate(); err != nil {
		t.Errorf("positive amount should validate, got %v", err)
	}
	if err := (Money{Cents: 0}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("zero amount error = %v, want ErrInvalidAmount", err)
	}
	if err := (Money{Cents: -100}).Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Errorf("negative amount error = %v, want ErrInvalidAmount", err)
	}
}
