// Package econtest provides synthetic FRED data and a fake batch source for
// tests of packages that consume the observation table.
package econtest

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

// Start is the first date of the synthetic data set.
var Start = time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)

// Rows is the number of monthly rows in the synthetic data set.
const Rows = 24

// Final values of the synthetic data set (2023-12-01).
const (
	FinalDebt      = 34000.0
	FinalFedFunds  = 5.25
	FinalGDP       = 28000.0
	FinalInflation = 3.10
)

// RawSeries returns 24 months of synthetic observations keyed by FRED series
// ID. Debt, the funds rate and CPI are monthly; GDP is quarterly so that the
// forward fill is exercised. CPI grows 3.1% per year.
func RawSeries() map[string]timeseries.Series {
	out := map[string]timeseries.Series{}
	var debt, funds, cpi, gdp timeseries.Series

	for i := 0; i < Rows; i++ {
		d := Start.AddDate(0, i, 0)

		debt.Dates = append(debt.Dates, d)
		debt.Values = append(debt.Values, 30000+float64(i)*(FinalDebt-30000)/(Rows-1))

		funds.Dates = append(funds.Dates, d)
		funds.Values = append(funds.Values, 0.25+float64(i)*(FinalFedFunds-0.25)/(Rows-1))

		cpi.Dates = append(cpi.Dates, d)
		cpi.Values = append(cpi.Values, 280*math.Pow(1+FinalInflation/100, float64(i)/12))

		if i%3 == 0 {
			gdp.Dates = append(gdp.Dates, d)
			gdp.Values = append(gdp.Values, 24500+float64(i/3)*(FinalGDP-24500)/7)
		}
	}

	out["GFDEBTN"] = debt
	out["FEDFUNDS"] = funds
	out["GDP"] = gdp
	out["CPIAUCSL"] = cpi
	return out
}

// RawTable returns RawSeries outer-joined in the given column order.
func RawTable(order []string) *timeseries.Table {
	tbl, err := timeseries.OuterJoin(rawWithExtra(), order)
	if err != nil {
		panic(err)
	}
	return tbl
}

// rawWithExtra is RawSeries plus an "EXTRA" column mirroring GDP, used to
// build tables carrying a series nobody asked for.
func rawWithExtra() map[string]timeseries.Series {
	raw := RawSeries()
	raw["EXTRA"] = raw["GDP"]
	return raw
}

// Source is a fake batch source backed by RawSeries.
type Source struct {
	// Err, when set, is returned by every FetchBatch call.
	Err error
	// Columns, when set, overrides the column order of the returned table.
	// Names missing from RawSeries make the call fail like an unknown series.
	Columns []string
	// Delay blocks each call for the given duration, or until ctx is done.
	Delay time.Duration

	mu    sync.Mutex
	calls atomic.Int32
}

// FetchBatch implements econdata.Source.
func (s *Source) FetchBatch(ctx context.Context, seriesIDs []string, _, _ time.Time) (*timeseries.Table, error) {
	s.calls.Add(1)
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	err, cols := s.Err, s.Columns
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	if cols == nil {
		cols = seriesIDs
	}
	return timeseries.OuterJoin(rawWithExtra(), cols)
}

// SetErr changes the error returned by later calls.
func (s *Source) SetErr(err error) {
	s.mu.Lock()
	s.Err = err
	s.mu.Unlock()
}

// Calls returns the number of FetchBatch calls so far.
func (s *Source) Calls() int {
	return int(s.calls.Load())
}
