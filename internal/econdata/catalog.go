// Package econdata builds the dashboard's observation table from FRED: the
// fixed series catalog, the cleaning pipeline and the cached loader.
package econdata

import "time"

// Logical series names, as shown on the dashboard.
const (
	NationalDebt = "National Debt"
	FedFundsRate = "Fed Funds Rate"
	GDP          = "GDP"
	Inflation    = "Inflation"
)

// CatalogEntry maps a logical series name to its FRED series ID.
type CatalogEntry struct {
	Name     string
	SeriesID string
	Units    string
}

var catalog = []CatalogEntry{
	{Name: NationalDebt, SeriesID: "GFDEBTN", Units: "Millions of Dollars"},
	{Name: FedFundsRate, SeriesID: "FEDFUNDS", Units: "Percent"},
	{Name: GDP, SeriesID: "GDP", Units: "Billions of Dollars"},
	{Name: Inflation, SeriesID: "CPIAUCSL", Units: "Percent change from year ago"},
}

// Catalog returns the ordered series catalog. The returned slice is a copy.
func Catalog() []CatalogEntry {
	return append([]CatalogEntry(nil), catalog...)
}

// SeriesIDs returns the FRED identifiers in catalog order.
func SeriesIDs() []string {
	ids := make([]string, len(catalog))
	for i, e := range catalog {
		ids[i] = e.SeriesID
	}
	return ids
}

// Names returns the logical names in catalog order.
func Names() []string {
	names := make([]string, len(catalog))
	for i, e := range catalog {
		names[i] = e.Name
	}
	return names
}

// Recession is a closed date interval of an NBER-dated US recession.
type Recession struct {
	Start time.Time
	End   time.Time
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var recessions = []Recession{
	{day(1973, time.November, 1), day(1975, time.March, 1)},
	{day(1980, time.January, 1), day(1980, time.July, 1)},
	{day(1981, time.July, 1), day(1982, time.November, 1)},
	{day(1990, time.July, 1), day(1991, time.March, 1)},
	{day(2001, time.March, 1), day(2001, time.November, 1)},
	{day(2007, time.December, 1), day(2009, time.June, 1)},
	{day(2020, time.February, 1), day(2020, time.April, 1)},
}

// Recessions returns the shaded recession intervals, oldest first.
func Recessions() []Recession {
	return append([]Recession(nil), recessions...)
}
