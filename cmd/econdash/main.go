// econdash: US Economic Dashboard
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Ross-123/US-Economic-Dashboard/internal/config"
	"github.com/Ross-123/US-Economic-Dashboard/internal/econdata"
	"github.com/Ross-123/US-Economic-Dashboard/internal/infra"
	"github.com/Ross-123/US-Economic-Dashboard/internal/providers/fred"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config and logger
var (
	cfg    *config.Config
	logger *slog.Logger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "econdash",
	Short: "econdash — US Economic Dashboard",
	Long: `econdash charts four US economic indicators from FRED on one
dual-axis figure: National Debt (GFDEBTN), the Federal Funds Rate (FEDFUNDS),
GDP (GDP) and year-over-year CPI inflation (CPIAUCSL), with recession
shading and a time-lapse animation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		logger = infra.NewLogger(cfg.Logging, os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(animateCmd)
	rootCmd.AddCommand(statusCmd)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("econdash %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Shared wiring ---

// pipeline bundles the collaborators every data command needs.
type pipeline struct {
	client   *fred.Client
	loader   *econdata.Loader
	metrics  *infra.Metrics
	shutdown infra.ShutdownFunc
}

// newPipeline wires the FRED client, loader, metrics and tracing from cfg.
// Trace output goes to stderr so command output on stdout stays clean.
func newPipeline() (*pipeline, error) {
	start, err := cfg.FRED.ParsedStartDate()
	if err != nil {
		return nil, err
	}
	shutdown, err := infra.InitTracing(cfg.Tracing, os.Stderr, logger)
	if err != nil {
		return nil, err
	}

	m := infra.NewMetrics()
	client := fred.NewFromConfig(cfg.FRED, logger)
	loader := econdata.NewLoader(client, econdata.Options{
		Start:   start,
		TTL:     cfg.Cache.TTL(),
		Metrics: m,
		Logger:  logger,
	})
	return &pipeline{client: client, loader: loader, metrics: m, shutdown: shutdown}, nil
}

// close flushes any pending spans.
func (p *pipeline) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.shutdown(ctx); err != nil {
		logger.Warn("tracer shutdown", "error", err)
	}
}
