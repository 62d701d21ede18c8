package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// ErrMissingEnv is returned by Validate when required settings are absent.
var ErrMissingEnv = errors.New("missing required configuration")

const (
	BackendGSheets = "gsheets"
	BackendXLSX    = "xlsx"
)

// Config holds everything a run needs.
type Config struct {
	Backend         string `json:"backend"`
	SheetID         string `json:"sheetId"`
	CredentialsFile string `json:"credentialsFile"`
	XLSXPath        string `json:"xlsxPath"`
	Worksheet       string `json:"worksheet"`

	SessionFile    string   `json:"sessionFile"`
	Source         string   `json:"source"`
	Timeout        Duration `json:"timeout"`
	Headless       *bool    `json:"headless"`
	ProxyURL       string   `json:"proxy"`
	BrowserBin     string   `json:"browserBin"`
	NoSandbox      bool     `json:"noSandbox"`
	DiagnosticsDir string   `json:"diagnosticsDir"`

	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`
}

// Duration accepts "60s" style strings or plain seconds in config files.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json5.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v := v.(type) {
	case float64:
		*d = Duration(time.Duration(v * float64(time.Second)))
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration: %s", b)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Backend:        BackendGSheets,
		Worksheet:      "USDCNY",
		SessionFile:    "session_state.json",
		Source:         "wsj.usdcny",
		Timeout:        Duration(60 * time.Second),
		DiagnosticsDir: ".",
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// Load builds the configuration: defaults, then <name> and <name>.local
// (json5, both optional), then environment variables.
func Load(name string) (Config, error) {
	cfg := Defaults()
	if name != "" {
		file, err := readFiles(name)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("failed to read config %s: %w", name, err)
		}
		if err := mergo.Merge(&cfg, file, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return cfg, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return f[:len(f)-len(ext)], ext
}

func readFiles(name string) (Config, error) {
	var out Config
	found := false

	base, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(base) > 0 {
		if err := json5.Unmarshal(base, &out); err != nil {
			return out, err
		}
		found = true
	}

	prefix, ext := splitExt(name)
	localPath := prefix + ".local" + ext
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, err
	}
	if len(local) > 0 {
		var override Config
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, err
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride, mergo.WithoutDereference); err != nil {
			return out, err
		}
		slog.Info("merging config with local overrides", "local", localPath)
		found = true
	}

	if !found {
		return out, os.ErrNotExist
	}
	return out, nil
}

func applyEnv(cfg *Config) {
	cfg.SheetID = getEnv("SHEET_ID", cfg.SheetID)
	cfg.CredentialsFile = getEnv("GOOGLE_APPLICATION_CREDENTIALS", cfg.CredentialsFile)
	cfg.Backend = getEnv("FXSHEET_BACKEND", cfg.Backend)
	cfg.XLSXPath = getEnv("FXSHEET_XLSX_PATH", cfg.XLSXPath)
	cfg.SessionFile = getEnv("FXSHEET_SESSION_FILE", cfg.SessionFile)
	cfg.ProxyURL = getEnv("FXSHEET_PROXY", cfg.ProxyURL)
	cfg.LogLevel = getEnv("FXSHEET_LOG_LEVEL", cfg.LogLevel)
	if v, ok := os.LookupEnv("FXSHEET_HEADLESS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Headless = &b
		}
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// IsHeadless reports the headless setting, defaulting to true.
func (c Config) IsHeadless() bool {
	return c.Headless == nil || *c.Headless
}

// Validate checks required settings; it runs before any network activity.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendGSheets:
		if c.SheetID == "" || c.CredentialsFile == "" {
			return fmt.Errorf("%w: environment variables SHEET_ID and GOOGLE_APPLICATION_CREDENTIALS must be set", ErrMissingEnv)
		}
		if _, err := os.Stat(c.CredentialsFile); err != nil {
			return fmt.Errorf("service account file %s not usable: %w", c.CredentialsFile, err)
		}
	case BackendXLSX:
		if c.XLSXPath == "" {
			return fmt.Errorf("%w: FXSHEET_XLSX_PATH (or --xlsx) must be set for the xlsx backend", ErrMissingEnv)
		}
	default:
		return fmt.Errorf("invalid backend: %s", c.Backend)
	}
	if c.Worksheet == "" {
		return fmt.Errorf("%w: worksheet name is empty", ErrMissingEnv)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("invalid timeout: %s", time.Duration(c.Timeout))
	}
	return nil
}
