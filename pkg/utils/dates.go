package utils

import "time"

// DateLayout is the YYYY-MM-DD layout used by FRED and the HTTP API.
const DateLayout = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// QuarterStart returns the first day of the quarter containing t.
func QuarterStart(t time.Time) time.Time {
	month := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), month, 1, 0, 0, 0, 0, t.Location())
}

// QuarterStarts returns every quarter start date (Jan 1, Apr 1, Jul 1, Oct 1)
// in the closed interval [start, end]. The first element is the first quarter
// start on or after start.
func QuarterStarts(start, end time.Time) []time.Time {
	if end.Before(start) {
		return nil
	}

	q := QuarterStart(start)
	if q.Before(start) {
		q = q.AddDate(0, 3, 0)
	}

	var dates []time.Time
	for !q.After(end) {
		dates = append(dates, q)
		q = q.AddDate(0, 3, 0)
	}
	return dates
}
