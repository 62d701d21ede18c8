// Package sheet keeps one row per date in a spreadsheet worksheet.
package sheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fxsheet/internal/quote"
)

// TimestampLayout is the UTC retrieval timestamp written in the last column.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Header is the canonical first row.
var Header = []string{"date", "close", "source", "retrieved_at_utc"}

// ErrWorksheetNotFound is returned by Spreadsheet.Worksheet for unknown titles.
var ErrWorksheetNotFound = errors.New("worksheet not found")

// InputMode controls how a backend interprets appended values.
type InputMode string

const (
	// Raw stores values exactly as given.
	Raw InputMode = "RAW"

	// UserEntered parses values as if typed into the sheet UI.
	UserEntered InputMode = "USER_ENTERED"
)

// Worksheet is a single tab of a spreadsheet. Rows are 1-indexed.
type Worksheet interface {
	Title() string
	RowValues(ctx context.Context, row int) ([]string, error)
	AllValues(ctx context.Context) ([][]string, error)
	Clear(ctx context.Context) error
	AppendRow(ctx context.Context, values []any, mode InputMode) error
}

// Spreadsheet is a collection of worksheets.
type Spreadsheet interface {
	Worksheet(ctx context.Context, title string) (Worksheet, error)
	AddWorksheet(ctx context.Context, title string, rows, cols int) (Worksheet, error)
}

// OpenOrCreate returns the named worksheet, adding it when missing.
func OpenOrCreate(ctx context.Context, book Spreadsheet, title string) (Worksheet, error) {
	ws, err := book.Worksheet(ctx, title)
	if err == nil {
		slog.Info("worksheet found", "title", title)
		return ws, nil
	}
	if !errors.Is(err, ErrWorksheetNotFound) {
		return nil, fmt.Errorf("failed to open worksheet %s: %w", title, err)
	}

	slog.Info("worksheet not found, creating it", "title", title)
	ws, err = book.AddWorksheet(ctx, title, 1000, 10)
	if err != nil {
		return nil, fmt.Errorf("failed to create worksheet %s: %w", title, err)
	}
	return ws, nil
}

// EnsureHeader rewrites the sheet with the canonical header when row 1 does
// not match it case-insensitively. Everything below row 1 is discarded in
// that case.
func EnsureHeader(ctx context.Context, ws Worksheet) (bool, error) {
	current, err := ws.RowValues(ctx, 1)
	if err != nil {
		return false, fmt.Errorf("failed to read header row: %w", err)
	}
	if headerMatches(current) {
		slog.Debug("existing header matches")
		return false, nil
	}

	slog.Warn("header does not match or is empty, resetting worksheet", "title", ws.Title(), "found", current)
	if err := ws.Clear(ctx); err != nil {
		return false, fmt.Errorf("failed to clear worksheet: %w", err)
	}
	row := make([]any, len(Header))
	for i, h := range Header {
		row[i] = h
	}
	if err := ws.AppendRow(ctx, row, Raw); err != nil {
		return false, fmt.Errorf("failed to write header: %w", err)
	}
	return true, nil
}

func headerMatches(row []string) bool {
	if len(row) != len(Header) {
		return false
	}
	for i, v := range row {
		if strings.ToLower(v) != Header[i] {
			return false
		}
	}
	return true
}

// AppendIfNew appends the record unless a row for its date already exists.
// The scan and the append are not atomic.
func AppendIfNew(ctx context.Context, ws Worksheet, rec quote.Record, source string, now time.Time) (bool, error) {
	rows, err := ws.AllValues(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to read worksheet: %w", err)
	}
	if len(rows) > 1 {
		for _, r := range rows[1:] {
			if len(r) > 0 && r[0] == rec.Date {
				slog.Info("date already exists in the spreadsheet, not inserting", "date", rec.Date)
				return false, nil
			}
		}
	}

	retrieved := now.UTC().Format(TimestampLayout)
	slog.Info("inserting new row", "date", rec.Date, "close", rec.Close, "source", source, "retrieved", retrieved)
	if err := ws.AppendRow(ctx, []any{rec.Date, rec.Close, source, retrieved}, UserEntered); err != nil {
		return false, fmt.Errorf("failed to append row: %w", err)
	}
	return true, nil
}
