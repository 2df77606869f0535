package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata/econtest"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

// ════════════════════════════════════════════════════════════════════
// Test Helpers
// ════════════════════════════════════════════════════════════════════

func sampleTable(t *testing.T) *timeseries.Table {
	t.Helper()
	tbl, err := econdata.Clean(econtest.RawTable(econdata.SeriesIDs()))
	require.NoError(t, err)
	return tbl
}

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

// ════════════════════════════════════════════════════════════════════
// Dashboard
// ════════════════════════════════════════════════════════════════════

func TestBuildDashboard(t *testing.T) {
	d := BuildDashboard(sampleTable(t), nil, DashboardOptions{DefaultSpeed: 7, Now: now})

	assert.Equal(t, "US Economic Indicators (1970-Present)", d.Title)
	assert.Equal(t, "Data loaded through December 2023", d.Banner)
	assert.Empty(t, d.Error)
	assert.Equal(t, 7, d.DefaultSpeed)
	assert.Equal(t, 1970, d.MinYear)
	assert.Equal(t, 2024, d.MaxYear)
	assert.Equal(t, "$34,000 Billion", d.Range.NationalDebt)
	assert.Equal(t, "3.10%", d.Range.Inflation)
	require.NotNil(t, d.InitialChart)
	assert.Len(t, d.InitialChart.Data, 4)
	// 5×365 days past 2022-01-01 is beyond the last row, so the whole table shows
	assert.Len(t, d.InitialChart.Data[0].X, econtest.Rows)
	assert.Len(t, d.Series, 4)
}

func TestBuildDashboardInvalidSpeedFallsBack(t *testing.T) {
	d := BuildDashboard(sampleTable(t), nil, DashboardOptions{DefaultSpeed: 42, Now: now})
	assert.Equal(t, 5, d.DefaultSpeed)
}

func TestBuildDashboardLoadError(t *testing.T) {
	d := BuildDashboard(nil, errors.New("fred GDP: HTTP 500"), DashboardOptions{Now: now})

	assert.Equal(t, "fred GDP: HTTP 500", d.Error)
	assert.Empty(t, d.Banner)
	assert.False(t, d.Range.Available)
	assert.Equal(t, "N/A", d.Latest.GDP)
	require.NotNil(t, d.InitialChart)
	assert.Empty(t, d.InitialChart.Data[0].X)
}

func TestGenerateHTML(t *testing.T) {
	html, err := GenerateHTML(BuildDashboard(sampleTable(t), nil, DashboardOptions{Now: now}))
	require.NoError(t, err)

	for _, want := range []string{
		"<title>US Economic Dashboard</title>",
		"US Economic Indicators (1970-Present)",
		"Data loaded through December 2023",
		"Key Observations",
		"Notice how debt growth accelerated after 2008 financial crisis",
		"Periods where inflation exceeds rates indicate loose policy",
		"Federal Reserve Economic Data (FRED)",
		"GFDEBTN", "FEDFUNDS", "CPIAUCSL",
		`id="speed" type="range" min="1" max="10" value="5"`,
		`id="initial-chart"`,
		`"hovermode":"x unified"`,
		"Time Animation Controls",
		"Select Year Range:",
		`id="year-from" type="range" min="1970" max="2024" step="1" value="1970"`,
		`id="year-to" type="range" min="1970" max="2024" step="1" value="2024"`,
	} {
		assert.Contains(t, html, want)
	}
	assert.NotContains(t, html, "NaN")
}

func TestGenerateHTMLError(t *testing.T) {
	html, err := GenerateHTML(BuildDashboard(nil, errors.New("upstream <down>"), DashboardOptions{Now: now}))
	require.NoError(t, err)
	assert.Contains(t, html, "Failed to load economic data: upstream &lt;down&gt;")
	assert.Contains(t, html, `disabled`)
}

func TestGenerateText(t *testing.T) {
	out := GenerateText(sampleTable(t))
	assert.Contains(t, out, "Data loaded through December 2023")
	assert.Contains(t, out, "$34,000B")
	assert.Contains(t, out, "5.25%")
	assert.Contains(t, out, "Debt & GDP Relationship")
	assert.Contains(t, out, "Inflation: CPIAUCSL")

	empty := GenerateText(&timeseries.Table{})
	assert.Contains(t, empty, "No observations loaded.")
}

// ════════════════════════════════════════════════════════════════════
// Export
// ════════════════════════════════════════════════════════════════════

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable(t)))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, econtest.Rows+1)
	assert.Equal(t, []string{"Date", "National Debt", "Fed Funds Rate", "GDP", "Inflation"}, records[0])
	assert.Equal(t, "2022-01-01", records[1][0])
	assert.Equal(t, "", records[1][4], "undefined inflation is an empty cell")
	assert.Equal(t, "34000", records[econtest.Rows][1])
	assert.Equal(t, "5.25", records[econtest.Rows][2])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleTable(t)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())
	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, econtest.Rows+1)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, "Inflation", rows[0][4])

	v, err := f.GetCellValue(SheetName, "B25")
	require.NoError(t, err)
	assert.Equal(t, "34000", v)
}
