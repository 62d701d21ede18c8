package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"fxsheet/internal/config"
	"fxsheet/internal/logging"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	configFile string
	logLevel   string
	logFormat  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:     "fxsheet",
		Short:   "Record the daily USD/CNY close into a spreadsheet",
		Version: version,
		Long: `fxsheet loads the WSJ USD/CNY historical prices page in a headless browser,
replaying a saved session to get past bot detection, reads the latest close
and appends it to a spreadsheet unless that date is already recorded.`,
		Example: `  # Mint the session file once (opens a visible browser)
  fxsheet capture-session

  # Or convert a Cookie-Editor export
  fxsheet convert-cookies --in cookies.json --out session_state.json

  # Daily run against Google Sheets
  SHEET_ID=... GOOGLE_APPLICATION_CREDENTIALS=sa.json fxsheet run

  # Offline run into a local workbook
  fxsheet run --backend xlsx --xlsx rates.xlsx -f json`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logging.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logging.Init(os.Stderr, level, logFormat)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "fxsheet.json5", "Config file (fxsheet.local.json5 next to it overrides it)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", envOr("FXSHEET_LOG_LEVEL", "info"), "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(newRunCmd(), newConvertCookiesCmd(), newCaptureSessionCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "\ncritical error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and environment, then lets explicitly
// set flags win.
func loadConfig(cmd *cobra.Command, apply func(*config.Config)) (config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return cfg, err
	}
	level, format := logLevel, logFormat
	if !cmd.Flags().Changed("log-level") && cfg.LogLevel != "" {
		level = cfg.LogLevel
	}
	if !cmd.Flags().Changed("log-format") && cfg.LogFormat != "" {
		format = cfg.LogFormat
	}
	if level != logLevel || format != logFormat {
		parsed, err := logging.ParseLevel(level)
		if err != nil {
			return cfg, err
		}
		logging.Init(os.Stderr, parsed, format)
	}
	if apply != nil {
		apply(&cfg)
	}
	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
