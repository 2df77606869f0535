package utils

import (
	"testing"
	"time"
)

func TestQuarterStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		{Date(2024, time.January, 1), Date(2024, time.January, 1)},
		{Date(2024, time.February, 15), Date(2024, time.January, 1)},
		{Date(2024, time.June, 30), Date(2024, time.April, 1)},
		{Date(2024, time.September, 1), Date(2024, time.July, 1)},
		{Date(2024, time.December, 31), Date(2024, time.October, 1)},
	}
	for _, tt := range tests {
		if got := QuarterStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("QuarterStart(%s) = %s, want %s", FormatDate(tt.in), FormatDate(got), FormatDate(tt.want))
		}
	}
}

func TestQuarterStartsAligned(t *testing.T) {
	got := QuarterStarts(Date(1970, time.January, 1), Date(1971, time.January, 1))
	want := []string{"1970-01-01", "1970-04-01", "1970-07-01", "1970-10-01", "1971-01-01"}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d", len(got), len(want))
	}
	for i := range want {
		if FormatDate(got[i]) != want[i] {
			t.Errorf("date[%d] = %s, want %s", i, FormatDate(got[i]), want[i])
		}
	}
}

func TestQuarterStartsUnaligned(t *testing.T) {
	// Start mid-quarter: first element is the next quarter start.
	got := QuarterStarts(Date(2023, time.February, 1), Date(2023, time.December, 1))
	want := []string{"2023-04-01", "2023-07-01", "2023-10-01"}
	if len(got) != len(want) {
		t.Fatalf("got %d dates, want %d", len(got), len(want))
	}
	for i := range want {
		if FormatDate(got[i]) != want[i] {
			t.Errorf("date[%d] = %s, want %s", i, FormatDate(got[i]), want[i])
		}
	}
}

func TestQuarterStartsEmpty(t *testing.T) {
	if got := QuarterStarts(Date(2024, time.May, 2), Date(2024, time.June, 1)); len(got) != 0 {
		t.Errorf("expected no quarter starts, got %v", got)
	}
	if got := QuarterStarts(Date(2024, time.June, 1), Date(2024, time.May, 1)); got != nil {
		t.Errorf("expected nil for inverted range, got %v", got)
	}
}

func TestParseFormatDate(t *testing.T) {
	d, err := ParseDate("2020-02-01")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if !d.Equal(Date(2020, time.February, 1)) {
		t.Errorf("ParseDate = %v", d)
	}
	if FormatDate(d) != "2020-02-01" {
		t.Errorf("FormatDate = %s", FormatDate(d))
	}
	if _, err := ParseDate("2020/02/01"); err == nil {
		t.Error("expected error for bad layout")
	}
}
