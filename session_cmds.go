package main

import (
	"bufio"
	"fmt"
	"os"
	"time"

	"fxsheet/internal/capture"
	"fxsheet/internal/session"
	"fxsheet/internal/sites/wsj"

	"github.com/spf13/cobra"
)

func newConvertCookiesCmd() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "convert-cookies",
		Short: "Convert a Cookie-Editor JSON export into a session-state file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := session.ConvertFile(in, out)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "--> converted %s to %s (%d cookies)\n", in, out, len(state.Cookies))
			return nil
		},
	}
	cmd.Flags().StringVar(&in, "in", "cookies.json", "Cookie-Editor export")
	cmd.Flags().StringVar(&out, "out", "session_state.json", "Session-state file to write")
	return cmd
}

func newCaptureSessionCmd() *cobra.Command {
	var (
		out      string
		wait     time.Duration
		timeout  time.Duration
		proxyURL string
		noPrompt bool
	)

	cmd := &cobra.Command{
		Use:   "capture-session",
		Short: "Open a visible browser, pass the bot check by hand and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("proxy") {
				proxyURL = cfg.ProxyURL
			}

			opts := capture.Options{
				URL:        wsj.HistoricalPricesURL,
				Out:        out,
				Wait:       wait,
				Timeout:    timeout,
				ProxyURL:   proxyURL,
				BrowserBin: cfg.BrowserBin,
			}
			if !noPrompt {
				opts.Confirm = func() {
					fmt.Fprint(os.Stderr, "Press ENTER to close the browser...")
					_, _ = bufio.NewReader(os.Stdin).ReadString('\n')
				}
			}

			if _, err := capture.Run(cmd.Context(), opts); err != nil {
				return fmt.Errorf("could not save session state: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "session_state.json", "Session-state file to write")
	cmd.Flags().DurationVar(&wait, "wait", 30*time.Second, "Time to interact with the page before cookies are saved")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Navigation timeout")
	cmd.Flags().StringVarP(&proxyURL, "proxy", "p", "", "Proxy URL")
	cmd.Flags().BoolVar(&noPrompt, "no-prompt", false, "Close the browser without waiting for ENTER")
	return cmd
}
