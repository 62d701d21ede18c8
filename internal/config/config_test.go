package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"SHEET_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FXSHEET_BACKEND",
		"FXSHEET_XLSX_PATH", "FXSHEET_SESSION_FILE", "FXSHEET_PROXY",
		"FXSHEET_LOG_LEVEL", "FXSHEET_HEADLESS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "fxsheet.json5"))
	require.NoError(t, err)
	require.Equal(t, BackendGSheets, cfg.Backend)
	require.Equal(t, "USDCNY", cfg.Worksheet)
	require.Equal(t, "session_state.json", cfg.SessionFile)
	require.Equal(t, Duration(60*time.Second), cfg.Timeout)
	require.True(t, cfg.IsHeadless())
}

func TestLoadLayered(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	name := filepath.Join(dir, "fxsheet.json5")

	require.NoError(t, os.WriteFile(name, []byte(`{
		// shared settings
		backend: "xlsx",
		xlsxPath: "rates.xlsx",
		timeout: "90s",
		headless: false,
	}`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fxsheet.local.json5"), []byte(`{
		xlsxPath: "local.xlsx",
		timeout: 30,
	}`), 0600))

	cfg, err := Load(name)
	require.NoError(t, err)
	require.Equal(t, BackendXLSX, cfg.Backend)
	require.Equal(t, "local.xlsx", cfg.XLSXPath)
	require.Equal(t, Duration(30*time.Second), cfg.Timeout)
	require.False(t, cfg.IsHeadless())
	require.Equal(t, "USDCNY", cfg.Worksheet)

	t.Setenv("FXSHEET_XLSX_PATH", "env.xlsx")
	t.Setenv("FXSHEET_HEADLESS", "true")
	cfg, err = Load(name)
	require.NoError(t, err)
	require.Equal(t, "env.xlsx", cfg.XLSXPath)
	require.True(t, cfg.IsHeadless())
}

func TestLoadInvalidFile(t *testing.T) {
	clearEnv(t)
	name := filepath.Join(t.TempDir(), "fxsheet.json5")
	require.NoError(t, os.WriteFile(name, []byte(`{backend: `), 0600))

	_, err := Load(name)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	creds := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(creds, []byte(`{}`), 0600))

	cfg := Defaults()
	require.ErrorIs(t, cfg.Validate(), ErrMissingEnv)

	cfg.SheetID = "sheet-key"
	require.ErrorIs(t, cfg.Validate(), ErrMissingEnv)

	cfg.CredentialsFile = filepath.Join(t.TempDir(), "missing.json")
	require.ErrorContains(t, cfg.Validate(), "not usable")

	cfg.CredentialsFile = creds
	require.NoError(t, cfg.Validate())

	cfg = Defaults()
	cfg.Backend = BackendXLSX
	require.ErrorIs(t, cfg.Validate(), ErrMissingEnv)
	cfg.XLSXPath = "rates.xlsx"
	require.NoError(t, cfg.Validate())

	cfg.Backend = "csv"
	require.ErrorContains(t, cfg.Validate(), "invalid backend")
}
