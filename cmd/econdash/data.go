package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/Ross-123/US-Economic-Dashboard/internal/chart"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/metrics"
	"github.com/Ross-123/US-Economic-Dashboard/internal/report"
	"github.com/Ross-123/US-Economic-Dashboard/internal/timeseries"
	"github.com/Ross-123/US-Economic-Dashboard/pkg/utils"
)

// loadTable runs the full FRED pipeline once.
func loadTable(cmd *cobra.Command) (*timeseries.Table, *pipeline, error) {
	p, err := newPipeline()
	if err != nil {
		return nil, nil, err
	}
	tbl, err := p.loader.LoadEconomicData(cmd.Context())
	if err != nil {
		p.close()
		return nil, nil, fmt.Errorf("failed to load economic data: %w", err)
	}
	return tbl, p, nil
}

// openOutput returns stdout for "" or "-", else creates the file.
func openOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// --- Fetch Command ---

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the four series from FRED and print a summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		tbl, p, err := loadTable(cmd)
		if err != nil {
			return err
		}
		defer p.close()

		fmt.Print(report.GenerateText(tbl))
		fmt.Println()

		rows, _ := cmd.Flags().GetInt("rows")
		return printTail(os.Stdout, tbl, rows)
	},
}

// printTail prints the last n rows of the table.
func printTail(w io.Writer, tbl *timeseries.Table, n int) error {
	table := tablewriter.NewWriter(w)
	table.Header(append([]string{"Date"}, tbl.Columns...))
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	from := max(0, tbl.Len()-n)
	var data [][]string
	for i := from; i < tbl.Len(); i++ {
		row := tbl.Row(i)
		data = append(data, []string{
			utils.FormatDate(row.Date),
			utils.FormatBillions(row.Get(econdata.NationalDebt), metrics.ShortSuffix),
			utils.FormatPercent(row.Get(econdata.FedFundsRate)),
			utils.FormatBillions(row.Get(econdata.GDP), metrics.ShortSuffix),
			utils.FormatPercent(row.Get(econdata.Inflation)),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func init() {
	fetchCmd.Flags().Int("rows", 12, "number of trailing rows to print")
}

// --- Render Command ---

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the chart as Plotly JSON, SVG or an HTML page",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")
		cutoffStr, _ := cmd.Flags().GetString("cutoff")

		var cutoff *time.Time
		if cutoffStr != "" {
			t, err := utils.ParseDate(cutoffStr)
			if err != nil {
				return fmt.Errorf("invalid --cutoff %q: expected YYYY-MM-DD", cutoffStr)
			}
			cutoff = &t
		}

		tbl, p, err := loadTable(cmd)
		if err != nil {
			return err
		}
		defer p.close()

		var body []byte
		switch strings.ToLower(format) {
		case "json":
			body, err = json.MarshalIndent(chart.Render(tbl, cutoff), "", "  ")
			if err != nil {
				return err
			}
		case "svg":
			body = []byte(chart.SVG(chart.Render(tbl, cutoff), chart.DefaultSVGConfig()))
		case "html":
			page, err := report.GenerateHTML(report.BuildDashboard(tbl, nil, report.DashboardOptions{
				DefaultSpeed: cfg.Animation.DefaultSpeed,
			}))
			if err != nil {
				return err
			}
			body = []byte(page)
		default:
			return fmt.Errorf("unknown format %q (want json, svg or html)", format)
		}

		w, err := openOutput(out)
		if err != nil {
			return err
		}
		if _, err := w.Write(body); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	},
}

func init() {
	renderCmd.Flags().String("format", "svg", "output format: json, svg or html")
	renderCmd.Flags().String("out", "", "output file (default stdout)")
	renderCmd.Flags().String("cutoff", "", "only include rows on or before this date (YYYY-MM-DD)")
}

// --- Export Command ---

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the observation table as CSV or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format = strings.ToLower(format)
		if format != "csv" && format != "xlsx" {
			return fmt.Errorf("unknown format %q (want csv or xlsx)", format)
		}
		if out == "" {
			out = "us-economic-indicators." + format
		}

		tbl, p, err := loadTable(cmd)
		if err != nil {
			return err
		}
		defer p.close()

		w, err := openOutput(out)
		if err != nil {
			return err
		}
		if format == "csv" {
			err = report.WriteCSV(w, tbl)
		} else {
			err = report.WriteXLSX(w, tbl)
		}
		if err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
		if out != "-" {
			fmt.Fprintf(os.Stderr, "💾 Wrote %d rows to %s\n", tbl.Len(), out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "csv", "export format: csv or xlsx")
	exportCmd.Flags().String("out", "", "output file, - for stdout (default us-economic-indicators.<format>)")
}
