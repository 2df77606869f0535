package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Ross-123/US-Economic-Dashboard/api"
)

// --- Serve Command ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the dashboard HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if host, _ := cmd.Flags().GetString("host"); host != "" {
			cfg.API.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.API.Port = port
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}
		defer p.close()

		if !p.client.HasAPIKey() {
			logger.Warn("FRED API key not set; data loads will fail until ECONDASH_FRED_API_KEY or FRED_API_KEY is provided")
		}

		if warm, _ := cmd.Flags().GetBool("warm"); warm {
			go func() {
				if _, err := p.loader.LoadEconomicData(context.Background()); err != nil {
					logger.Error("cache warm-up failed", "error", err)
				}
			}()
		}

		srv := api.NewServer(cfg, p.loader, api.Options{
			Metrics: p.metrics,
			Logger:  logger,
		})
		return srv.ListenAndServe(fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port))
	},
}

func init() {
	serveCmd.Flags().String("host", "", "listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "listen port (default from config)")
	serveCmd.Flags().Bool("warm", true, "load the FRED data in the background at startup")
}
