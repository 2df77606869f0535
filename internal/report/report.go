// Package report renders the dashboard page, a plain-text summary for the CLI,
// and CSV/XLSX exports of the observation table.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/Ross-123/US-Economic-Dashboard/internal/animation"
	"github.com/Ross-123/US-Economic-Dashboard/internal/chart"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/metrics"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
)

// DataSource is credited in the footer.
const DataSource = "Federal Reserve Economic Data (FRED)"

// ════════════════════════════════════════════════════════════════════
// Dashboard data flattened for template rendering
// ════════════════════════════════════════════════════════════════════

// LegendEntry describes a series and the axis it is drawn on.
type LegendEntry struct {
	Name string
	Axis string
}

// Observation is a titled panel of commentary bullets.
type Observation struct {
	Title  string
	Points []string
}

// DashboardData is the template model passed to DashboardTemplate.
type DashboardData struct {
	PageTitle string
	Title     string
	Legend    []LegendEntry
	Banner    string
	Error     string

	InitialChart     *chart.Spec
	DefaultSpeed     int
	MinSpeed         int
	MaxSpeed         int
	CompletedMessage string
	Latest           metrics.Snapshot

	MinYear  int
	MaxYear  int
	FromYear int
	ToYear   int
	Range    metrics.Snapshot

	Observations []Observation
	Source       string
	Series       []econdata.CatalogEntry
	GeneratedAt  string
}

// Legend lists the series as introduced on the page.
var Legend = []LegendEntry{
	{Name: econdata.NationalDebt, Axis: "Left axis, Billions $"},
	{Name: "Federal Funds Rate", Axis: "Right axis, %"},
	{Name: econdata.GDP, Axis: "Left axis, Billions $"},
	{Name: econdata.Inflation, Axis: "Right axis, YoY %"},
}

// Observations is the static commentary shown under the chart.
var Observations = []Observation{
	{
		Title: "Debt & GDP Relationship",
		Points: []string{
			"Notice how debt growth accelerated after 2008 financial crisis",
			"Debt-to-GDP ratio changes visible through relative positions",
		},
	},
	{
		Title: "Interest & Inflation Correlation",
		Points: []string{
			"Fed typically raises rates to combat high inflation",
			"Periods where inflation exceeds rates indicate loose policy",
		},
	},
}

// DashboardOptions controls page generation.
type DashboardOptions struct {
	DefaultSpeed int       // initial speed slider value
	Now          time.Time // current time; bounds the year selector
}

// BuildDashboard assembles the page model. tbl may be nil when loadErr is set;
// the page then renders with the error banner and empty chart.
func BuildDashboard(tbl *timeseries.Table, loadErr error, opts DashboardOptions) DashboardData {
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	if animation.ValidateSpeed(opts.DefaultSpeed) != nil {
		opts.DefaultSpeed = animation.DefaultSpeed
	}
	maxYear := opts.Now.Year()

	data := DashboardData{
		PageTitle:        "US Economic Dashboard",
		Title:            chart.Title,
		Legend:           Legend,
		DefaultSpeed:     opts.DefaultSpeed,
		MinSpeed:         animation.MinSpeed,
		MaxSpeed:         animation.MaxSpeed,
		CompletedMessage: animation.CompletedMessage,
		MinYear:          metrics.MinYear,
		MaxYear:          maxYear,
		FromYear:         metrics.MinYear,
		ToYear:           maxYear,
		Observations:     Observations,
		Source:           DataSource,
		Series:           econdata.Catalog(),
		GeneratedAt:      opts.Now.Format("02 Jan 2006 15:04 MST"),
	}

	if loadErr != nil || tbl == nil {
		if loadErr != nil {
			data.Error = loadErr.Error()
		}
		data.InitialChart = chart.Render(nil, nil)
		data.Latest = metrics.Unavailable()
		data.Range = metrics.ForYearRange(&timeseries.Table{}, metrics.MinYear, maxYear)
		return data
	}

	if last, ok := tbl.LastDate(); ok {
		data.Banner = econdata.Banner(last)
	}
	if cutoff, ok := animation.InitialCutoff(tbl); ok {
		data.InitialChart = chart.Render(tbl, &cutoff)
		data.Latest = metrics.AsOf(tbl, cutoff)
	} else {
		data.InitialChart = chart.Render(tbl, nil)
		data.Latest = metrics.Unavailable()
	}
	data.Range = metrics.ForYearRange(tbl, metrics.MinYear, maxYear)
	return data
}

// ════════════════════════════════════════════════════════════════════
// Generate Output
// ════════════════════════════════════════════════════════════════════

var dashboardTmpl = template.Must(template.New("dashboard").Parse(DashboardTemplate))

// GenerateHTML renders the dashboard page.
func GenerateHTML(data DashboardData) (string, error) {
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return buf.String(), nil
}

// GenerateText renders a plain-text summary (terminal / CLI friendly).
func GenerateText(tbl *timeseries.Table) string {
	var sb strings.Builder
	line := strings.Repeat("─", 60)

	sb.WriteString(line + "\n")
	sb.WriteString(fmt.Sprintf("  %s\n", chart.Title))
	sb.WriteString(line + "\n")

	last, ok := tbl.LastDate()
	if !ok {
		sb.WriteString("  No observations loaded.\n")
		return sb.String()
	}
	first, _ := tbl.FirstDate()
	sb.WriteString(fmt.Sprintf("  %s\n", econdata.Banner(last)))
	sb.WriteString(fmt.Sprintf("  Observations: %d (%s to %s)\n\n",
		tbl.Len(), first.Format("Jan 2006"), last.Format("Jan 2006")))

	m := metrics.Latest(tbl)
	sb.WriteString("  LATEST VALUES\n")
	sb.WriteString(fmt.Sprintf("    %-16s %s\n", "National Debt:", m.NationalDebt))
	sb.WriteString(fmt.Sprintf("    %-16s %s\n", "Fed Rate:", m.FedFundsRate))
	sb.WriteString(fmt.Sprintf("    %-16s %s\n", "GDP:", m.GDP))
	sb.WriteString(fmt.Sprintf("    %-16s %s\n", "Inflation:", m.Inflation))

	sb.WriteString("\n  KEY OBSERVATIONS\n")
	for _, o := range Observations {
		sb.WriteString(fmt.Sprintf("    %s:\n", o.Title))
		for _, p := range o.Points {
			sb.WriteString(fmt.Sprintf("      - %s\n", p))
		}
	}

	sb.WriteString("\n" + line + "\n")
	sb.WriteString("  Data Source: " + DataSource + "\n")
	for _, e := range econdata.Catalog() {
		sb.WriteString(fmt.Sprintf("    %s: %s\n", e.Name, e.SeriesID))
	}
	return sb.String()
}
