package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/roofing-site/pkg/config"
)

var (
	// Loaded in PersistentPreRunE for every subcommand
	cfg    *config.Config
	logger *slog.Logger

	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "roofsite",
	Short: "Roofing contractor marketing site",
	Long: `roofsite serves the contractor's location landing pages, accepts quote
requests and exports the site as static files.

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			cfg.Observability.LogLevel = logLevel
		}
		logger = config.NewLogger(cfg.Observability, cfg.IsProduction(), os.Stderr)
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override LOG_LEVEL (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, exportCmd, migrateCmd, draftCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
