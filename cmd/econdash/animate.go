package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Ross-123/US-Economic-Dashboard/internal/animation"
)

// --- Animate Command ---

var animateCmd = &cobra.Command{
	Use:   "animate",
	Short: "Play the time-lapse animation in the terminal",
	Long: `Steps through the data one quarter at a time, printing the latest
metrics at each cutoff. Speed 1 is slowest, 10 fastest. Press Ctrl-C to stop.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		speed, _ := cmd.Flags().GetInt("speed")
		if speed == 0 {
			speed = cfg.Animation.DefaultSpeed
		}
		if err := animation.ValidateSpeed(speed); err != nil {
			return err
		}

		tbl, p, err := loadTable(cmd)
		if err != nil {
			return err
		}
		defer p.close()

		opts := animation.OptionsFromConfig(cfg.Animation)
		opts.Metrics = p.metrics
		opts.Logger = logger
		if d, _ := cmd.Flags().GetDuration("base-delay"); d > 0 {
			opts.BaseDelay = d
		}

		player, err := animation.NewPlayer(tbl, speed, opts)
		if err != nil {
			return err
		}

		fmt.Printf("▶️  Playing %d frames at speed %d (%v per frame)\n\n", player.Frames(), speed, player.Delay())
		err = player.Run(cmd.Context(), func(f animation.Frame) error {
			printFrame(os.Stdout, f)
			return nil
		})
		if errors.Is(err, context.Canceled) {
			color.New(color.FgYellow).Println("\n⏹  Animation cancelled")
			return nil
		}
		if err != nil {
			return err
		}
		color.New(color.FgGreen, color.Bold).Println("\n✅ " + animation.CompletedMessage)
		return nil
	},
}

var (
	dateColor = color.New(color.FgCyan, color.Bold)
	debtColor = color.New(color.FgBlue)
	rateColor = color.New(color.FgRed)
	gdpColor  = color.New(color.FgGreen)
	inflColor = color.New(color.FgYellow)
)

// progressBar is the width of the terminal progress bar.
const progressBar = 30

// printFrame prints one line per frame: cutoff, progress bar and metrics.
func printFrame(w io.Writer, f animation.Frame) {
	label := f.Date
	if f.Final {
		label = "latest"
	}
	filled := f.Progress * progressBar / 100
	bar := strings.Repeat("█", filled) + strings.Repeat("░", progressBar-filled)

	fmt.Fprintf(w, "%s %s %3d%%  Debt %s  Rate %s  GDP %s  Infl %s\n",
		dateColor.Sprintf("%-10s", label),
		bar,
		f.Progress,
		debtColor.Sprint(f.Metrics.NationalDebt),
		rateColor.Sprint(f.Metrics.FedFundsRate),
		gdpColor.Sprint(f.Metrics.GDP),
		inflColor.Sprint(f.Metrics.Inflation),
	)
}

func init() {
	animateCmd.Flags().Int("speed", 0, "animation speed 1-10 (default from config)")
	animateCmd.Flags().Duration("base-delay", 0, "delay at speed 1, divided by speed (default from config)")
}
