package main

import (
	"fmt"
	"time"

	"fxsheet/internal/config"
	"fxsheet/internal/formatter"
	"fxsheet/internal/pipeline"
	_ "fxsheet/internal/sites/wsj"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	var (
		backend        string
		xlsxPath       string
		sessionFile    string
		source         string
		timeout        time.Duration
		showUI         bool
		proxyURL       string
		diagnosticsDir string
		outputFormat   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the latest close and upsert it into the spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, func(c *config.Config) {
				flags := cmd.Flags()
				if flags.Changed("backend") {
					c.Backend = backend
				}
				if flags.Changed("xlsx") {
					c.XLSXPath = xlsxPath
				}
				if flags.Changed("session") {
					c.SessionFile = sessionFile
				}
				if flags.Changed("source") {
					c.Source = source
				}
				if flags.Changed("timeout") {
					c.Timeout = config.Duration(timeout)
				}
				if flags.Changed("showui") {
					headless := !showUI
					c.Headless = &headless
				}
				if flags.Changed("proxy") {
					c.ProxyURL = proxyURL
				}
				if flags.Changed("diagnostics-dir") {
					c.DiagnosticsDir = diagnosticsDir
				}
			})
			if err != nil {
				return err
			}

			runner, err := pipeline.New(cfg)
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context())
			if err != nil {
				return err
			}

			out, err := formatter.Format(res, outputFormat)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			fmt.Println(out)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", config.BackendGSheets, "Spreadsheet backend (gsheets, xlsx)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Workbook path for the xlsx backend")
	cmd.Flags().StringVar(&sessionFile, "session", "session_state.json", "Session-state file")
	cmd.Flags().StringVar(&source, "source", "wsj.usdcny", "Source to scrape")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 60*time.Second, "Navigation and table attach timeout")
	cmd.Flags().BoolVar(&showUI, "showui", false, "Show browser UI (disable headless mode)")
	cmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL (e.g. http://127.0.0.1:7890)")
	cmd.Flags().StringVar(&diagnosticsDir, "diagnostics-dir", ".", "Where failure screenshots and page snapshots go")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "text", "Output format (text, json, csv)")
	return cmd
}
