// Package utils provides common formatting and date helpers for the dashboard.
package utils

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// NotAvailable is shown in place of a value that is missing or undefined.
const NotAvailable = "N/A"

// FormatBillions formats an amount already expressed in billions of dollars,
// rounded to whole billions with US digit grouping, followed by suffix.
// e.g., FormatBillions(34000, "B") → "$34,000B", FormatBillions(28000.4, " Billion") → "$28,000 Billion"
func FormatBillions(amount float64, suffix string) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return NotAvailable
	}
	rounded := math.Round(amount)
	if rounded < 0 {
		return "-$" + formatThousands(int64(-rounded)) + suffix
	}
	return "$" + formatThousands(int64(rounded)) + suffix
}

// FormatPercent formats a percentage with two decimals and a % suffix.
// e.g., 5.25 → "5.25%", -0.4 → "-0.40%"
func FormatPercent(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatMonthYear formats a date as "January 2024".
func FormatMonthYear(t time.Time) string {
	return t.Format("January 2006")
}

// formatThousands formats a non-negative integer with comma grouping by thousands.
func formatThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}

	var sb strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		sb.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if sb.Len() > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}
