package pipeline

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"testing"
	"time"

	"fxsheet/internal/config"
	"fxsheet/internal/quote"
	"fxsheet/internal/session"
	"fxsheet/internal/sheet"
	"fxsheet/internal/sheet/xlsx"
	"fxsheet/internal/sites/wsj"

	"github.com/stretchr/testify/require"
)

func xlsxConfig(t *testing.T) config.Config {
	cfg := config.Defaults()
	cfg.Backend = config.BackendXLSX
	cfg.XLSXPath = filepath.Join(t.TempDir(), "rates.xlsx")
	cfg.SessionFile = filepath.Join(t.TempDir(), "session_state.json")
	return cfg
}

func staticRow(date, closeText string) FetchFunc {
	return func(context.Context) (quote.Raw, error) {
		return quote.Raw{Date: date, Close: closeText}, nil
	}
}

func TestRunAppendsOncePerDate(t *testing.T) {
	ctx := context.Background()
	cfg := xlsxConfig(t)
	now := time.Date(2025, time.March, 11, 0, 30, 0, 0, time.UTC)

	r, err := New(cfg,
		WithFetch(staticRow("03/10/25", "7.1782")),
		WithClock(func() time.Time { return now }),
	)
	require.NoError(t, err)

	res, err := r.Run(ctx)
	require.NoError(t, err)
	require.True(t, res.Inserted)
	require.True(t, res.HeaderReset)
	require.Equal(t, quote.Record{Date: "2025-03-10", Close: 7.1782}, res.Record)
	require.Equal(t, wsj.HistoricalPricesURL, res.Source)

	res, err = r.Run(ctx)
	require.NoError(t, err)
	require.False(t, res.Inserted)
	require.False(t, res.HeaderReset)

	book, err := xlsx.Open(cfg.XLSXPath)
	require.NoError(t, err)
	defer book.Close()
	ws, err := book.Worksheet(ctx, "USDCNY")
	require.NoError(t, err)
	rows, err := ws.AllValues(ctx)
	require.NoError(t, err)
	require.Equal(t, [][]string{
		sheet.Header,
		{"2025-03-10", "7.1782", wsj.HistoricalPricesURL, "2025-03-11T00:30:00Z"},
	}, rows)
}

func TestRunParseFailureWritesNothing(t *testing.T) {
	cfg := xlsxConfig(t)
	opened := false

	r, err := New(cfg,
		WithFetch(staticRow("Mar 10", "7.1782")),
		WithSpreadsheet(func(context.Context) (sheet.Spreadsheet, io.Closer, error) {
			opened = true
			return nil, nil, errors.New("unexpected")
		}),
	)
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	var perr *quote.ParseError
	require.ErrorAs(t, err, &perr)
	require.Equal(t, "Mar 10", perr.Raw.Date)
	require.False(t, opened)
}

func TestRunMissingSession(t *testing.T) {
	r, err := New(xlsxConfig(t))
	require.NoError(t, err)

	_, err = r.Run(context.Background())
	require.ErrorIs(t, err, session.ErrMissing)
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	t.Setenv("SHEET_ID", "")
	cfg := config.Defaults()
	_, err := New(cfg)
	require.ErrorIs(t, err, config.ErrMissingEnv)

	cfg = xlsxConfig(t)
	cfg.Source = "nope"
	_, err = New(cfg)
	require.ErrorContains(t, err, "unknown source")
}
