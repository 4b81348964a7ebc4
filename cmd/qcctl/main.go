package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qc-tracking-backend/config"
	"qc-tracking-backend/internal/client"
	"qc-tracking-backend/internal/logging"
)

var (
	// Global flags
	configPath string
	apiURL     string
	verbose    bool
	timeout    time.Duration

	cfg       *config.Config
	logger    *zap.Logger
	apiClient *client.Client
)

var rootCmd = &cobra.Command{
	Use:   "qcctl",
	Short: "Quality-control tracking client",
	Long: `qcctl reads and submits production quality measurements.

It talks to the qcd REST API: list and summarise records with the same
filters the dashboards use, evaluate and submit new measurements, watch the
live dashboard, export spreadsheets and read scale displays with OCR.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config") {
			cfg, err = config.Default(), nil
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger, err = logging.NewStderr(level)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		if apiURL == "" {
			apiURL = cfg.Client.BaseURL
		}
		if timeout <= 0 {
			timeout = cfg.Client.Timeout
		}
		apiClient = client.New(apiURL, timeout, logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config/config.yaml", "config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "API base URL (default from config client.base_url)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "request timeout (default from config)")

	rootCmd.AddCommand(masterCmd, listCmd, summaryCmd, evaluateCmd, submitCmd, watchCmd, exportCmd, ocrCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
