// Package metrics derives the four headline indicator values shown beside the
// chart, either as of a date (animation) or for a year range (slider panel).
package metrics

import (
	"fmt"
	"math"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// MinYear is the lower bound of the year-range selector.
const MinYear = 1970

// Amount suffixes for debt and GDP.
const (
	ShortSuffix = "B"        // animation panel: "$34,000B"
	LongSuffix  = " Billion" // year-range panel: "$34,000 Billion"
)

// Values holds the raw metric values. NaN means unavailable.
type Values struct {
	NationalDebt float64
	FedFundsRate float64
	GDP          float64
	Inflation    float64
}

// Snapshot is a formatted set of metrics.
type Snapshot struct {
	Available    bool   `json:"available"`
	Date         string `json:"date,omitempty"`
	NationalDebt string `json:"national_debt"`
	FedFundsRate string `json:"fed_funds_rate"`
	GDP          string `json:"gdp"`
	Inflation    string `json:"inflation"`
	raw          Values
}

// Raw returns the unformatted values behind the snapshot.
func (s Snapshot) Raw() Values { return s.raw }

// Unavailable returns an all-N/A snapshot.
func Unavailable() Snapshot {
	return format(Values{math.NaN(), math.NaN(), math.NaN(), math.NaN()}, ShortSuffix)
}

// AsOf returns the metrics of the latest row dated on or before date, with
// short amount formatting. When no row qualifies every metric is N/A.
func AsOf(tbl *timeseries.Table, date time.Time) Snapshot {
	row, ok := tbl.AsOf(date)
	if !ok {
		return Unavailable()
	}
	return fromRow(row, ShortSuffix)
}

// Latest returns the metrics of the last row.
func Latest(tbl *timeseries.Table) Snapshot {
	row, ok := tbl.Last()
	if !ok {
		return Unavailable()
	}
	return fromRow(row, ShortSuffix)
}

// ForYearRange returns the metrics of the last row whose year lies in
// [from, to], with long amount formatting. An empty selection is reported as
// unavailable rather than an error.
func ForYearRange(tbl *timeseries.Table, from, to int) Snapshot {
	row, ok := tbl.YearRange(from, to).Last()
	if !ok {
		return format(Values{math.NaN(), math.NaN(), math.NaN(), math.NaN()}, LongSuffix)
	}
	return fromRow(row, LongSuffix)
}

// ValidateYearRange checks a year-range selection against [MinYear, maxYear].
func ValidateYearRange(from, to, maxYear int) error {
	if from < MinYear || to > maxYear {
		return fmt.Errorf("year range must lie within %d-%d", MinYear, maxYear)
	}
	if from > to {
		return fmt.Errorf("start year %d is after end year %d", from, to)
	}
	return nil
}

func fromRow(row timeseries.Row, suffix string) Snapshot {
	s := format(Values{
		NationalDebt: row.Get(econdata.NationalDebt),
		FedFundsRate: row.Get(econdata.FedFundsRate),
		GDP:          row.Get(econdata.GDP),
		Inflation:    row.Get(econdata.Inflation),
	}, suffix)
	s.Available = true
	s.Date = utils.FormatDate(row.Date)
	return s
}

func format(v Values, suffix string) Snapshot {
	return Snapshot{
		NationalDebt: utils.FormatBillions(v.NationalDebt, suffix),
		FedFundsRate: utils.FormatPercent(v.FedFundsRate),
		GDP:          utils.FormatBillions(v.GDP, suffix),
		Inflation:    utils.FormatPercent(v.Inflation),
		raw:          v,
	}
}
