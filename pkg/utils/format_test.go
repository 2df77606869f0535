package utils

import (
	"math"
	"testing"
	"time"
)

func TestFormatBillions(t *testing.T) {
	tests := []struct {
		input    float64
		suffix   string
		expected string
	}{
		{0, "B", "$0B"},
		{999, "B", "$999B"},
		{1000, "B", "$1,000B"},
		{34000, "B", "$34,000B"},
		{28000.4, " Billion", "$28,000 Billion"},
		{35464.9, "B", "$35,465B"},
		{1234567, "B", "$1,234,567B"},
		{-1500, "B", "-$1,500B"},
		{math.NaN(), "B", "N/A"},
		{math.Inf(1), "B", "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatBillions(tt.input, tt.suffix)
			if result != tt.expected {
				t.Errorf("FormatBillions(%f, %q) = %s, want %s", tt.input, tt.suffix, result, tt.expected)
			}
		})
	}
}

func TestFormatPercent(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{5.25, "5.25%"},
		{3.1, "3.10%"},
		{0, "0.00%"},
		{-0.4, "-0.40%"},
		{13.549, "13.55%"},
		{math.NaN(), "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatPercent(tt.input)
			if result != tt.expected {
				t.Errorf("FormatPercent(%f) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatThousands(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0"},
		{12, "12"},
		{123, "123"},
		{1234, "1,234"},
		{12345, "12,345"},
		{123456, "123,456"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatThousands(tt.input); got != tt.expected {
			t.Errorf("formatThousands(%d) = %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestFormatMonthYear(t *testing.T) {
	got := FormatMonthYear(Date(2024, time.March, 1))
	if got != "March 2024" {
		t.Errorf("FormatMonthYear = %q, want %q", got, "March 2024")
	}
}
