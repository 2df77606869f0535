package econdata

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

// InflationPeriods is the look-back, in observations, of the year-over-year
// inflation change. The aligned table is monthly, so 12 rows is one year.
const InflationPeriods = 12

// ErrColumnMismatch is returned when the source returns a different set of
// series than was requested.
var ErrColumnMismatch = errors.New("returned series do not match the catalog")

// Clean turns the raw outer-joined provider table (columns named by FRED
// series ID) into the observation table:
//
//  1. forward-fill gaps along the date axis
//  2. drop rows that still have a missing cell
//  3. rename series IDs to logical names, in catalog order
//  4. replace the CPI level with its 12-period percent change ×100
//
// The first InflationPeriods rows of the Inflation column are NaN.
func Clean(raw *timeseries.Table) (*timeseries.Table, error) {
	if err := checkColumns(raw.Columns); err != nil {
		return nil, err
	}
	ordered, err := raw.Select(SeriesIDs())
	if err != nil {
		return nil, err
	}

	tbl := ordered.FFill().DropNA()

	rename := make(map[string]string, len(catalog))
	for _, e := range catalog {
		rename[e.SeriesID] = e.Name
	}
	if err := tbl.RenameColumns(rename); err != nil {
		return nil, err
	}

	cpi, err := tbl.Column(Inflation)
	if err != nil {
		return nil, err
	}
	inflation := timeseries.Scale(timeseries.PctChange(cpi, InflationPeriods), 100)
	if err := tbl.SetColumn(Inflation, inflation); err != nil {
		return nil, err
	}

	if err := tbl.Validate(); err != nil {
		return nil, fmt.Errorf("observation table: %w", err)
	}
	return tbl, nil
}

func checkColumns(got []string) error {
	want := SeriesIDs()
	g := append([]string(nil), got...)
	sort.Strings(g)
	sort.Strings(want)

	if len(g) != len(want) {
		return fmt.Errorf("%w: got [%s], want [%s]", ErrColumnMismatch, strings.Join(g, ", "), strings.Join(want, ", "))
	}
	for i := range want {
		if g[i] != want[i] {
			return fmt.Errorf("%w: got [%s], want [%s]", ErrColumnMismatch, strings.Join(g, ", "), strings.Join(want, ", "))
		}
	}
	return nil
}
