package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/providers/fred"
)

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration, API key status and FRED series metadata",
	RunE: func(cmd *cobra.Command, args []string) error {
		ok := color.New(color.FgGreen).SprintFunc()
		bad := color.New(color.FgRed).SprintFunc()

		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  econdash — System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Println()

		// Config summary
		fmt.Println("  Configuration:")
		fmt.Printf("    FRED API:      %s\n", cfg.FRED.BaseURL)
		fmt.Printf("    Start Date:    %s\n", cfg.FRED.StartDate)
		fmt.Printf("    Cache TTL:     %s\n", cfg.Cache.TTL())
		fmt.Printf("    Anim. Speed:   %d (base delay %dms)\n", cfg.Animation.DefaultSpeed, cfg.Animation.BaseDelayMS)
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Println()

		// API keys status
		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := bad("not set")
			if k.IsSet {
				status = ok(fmt.Sprintf("set (%s: %s)", k.Source, k.Masked))
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}
		fmt.Println("═══════════════════════════════════════")

		if check, _ := cmd.Flags().GetBool("check"); !check {
			return nil
		}

		client := fred.NewFromConfig(cfg.FRED, logger)
		fmt.Println()
		if err := client.Ping(cmd.Context()); err != nil {
			fmt.Printf("  FRED:  %s\n", bad(err.Error()))
			return nil
		}
		fmt.Printf("  FRED:  %s\n\n", ok("reachable"))

		table := tablewriter.NewWriter(os.Stdout)
		table.Header([]string{"Indicator", "Series", "Title", "Frequency", "Units", "Last Observation", "Updated"})
		var data [][]string
		for _, e := range econdata.Catalog() {
			info, err := client.Info(cmd.Context(), e.SeriesID)
			if err != nil {
				data = append(data, []string{e.Name, e.SeriesID, bad(err.Error()), "", "", "", ""})
				continue
			}
			data = append(data, []string{
				e.Name, info.ID, info.Title, info.Frequency, info.Units, info.ObservationEnd, info.LastUpdated,
			})
		}
		if err := table.Bulk(data); err != nil {
			return err
		}
		return table.Render()
	},
}

func init() {
	statusCmd.Flags().Bool("check", false, "contact FRED and list metadata for each series")
}
