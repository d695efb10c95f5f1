package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"FilingWatch/internal/app"
	"FilingWatch/internal/config"
	"FilingWatch/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "filingwatch",
	Short: "FDA 510(k) filing watcher",
	Long: "filingwatch drives the FDA 510(k) search interface through a headless browser, " +
		"extracts filing records, reconciles them against a persisted seen-key ledger, " +
		"and mails a digest of newly observed filings.",
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute one watch pass and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer func() { _ = application.Close() }()

		return application.RunOnce(cmd.Context())
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run watch passes on the configured interval until interrupted",
	RunE: func(cmd *cobra.Command, _ []string) error {
		application, err := buildApp()
		if err != nil {
			return err
		}
		defer func() { _ = application.Close() }()

		return application.Watch(cmd.Context())
	},
}

func buildApp() (*app.Application, error) {
	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)
	return app.New(cfg, logger)
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	// Load .env if present; credentials commonly live there.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
