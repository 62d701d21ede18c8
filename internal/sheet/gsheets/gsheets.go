// Package gsheets implements sheet.Spreadsheet on the Google Sheets API.
package gsheets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"fxsheet/internal/sheet"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Spreadsheet is one Google spreadsheet addressed by its key.
type Spreadsheet struct {
	svc *sheets.Service
	id  string
}

// Open authorizes with a service-account credential file.
func Open(ctx context.Context, spreadsheetID, credentialsFile string) (*Spreadsheet, error) {
	svc, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets client: %w", err)
	}
	slog.Info("connected to google sheets", "spreadsheet", spreadsheetID)
	return &Spreadsheet{svc: svc, id: spreadsheetID}, nil
}

func (s *Spreadsheet) Worksheet(ctx context.Context, title string) (sheet.Worksheet, error) {
	ss, err := s.svc.Spreadsheets.Get(s.id).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	for _, sh := range ss.Sheets {
		if sh.Properties != nil && sh.Properties.Title == title {
			return &Worksheet{svc: s.svc, id: s.id, title: title}, nil
		}
	}
	return nil, sheet.ErrWorksheetNotFound
}

func (s *Spreadsheet) AddWorksheet(ctx context.Context, title string, rows, cols int) (sheet.Worksheet, error) {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			AddSheet: &sheets.AddSheetRequest{
				Properties: &sheets.SheetProperties{
					Title: title,
					GridProperties: &sheets.GridProperties{
						RowCount:    int64(rows),
						ColumnCount: int64(cols),
					},
				},
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.id, req).Context(ctx).Do(); err != nil {
		return nil, err
	}
	return &Worksheet{svc: s.svc, id: s.id, title: title}, nil
}

// Worksheet is one tab of a Google spreadsheet.
type Worksheet struct {
	svc   *sheets.Service
	id    string
	title string
}

func (w *Worksheet) Title() string {
	return w.title
}

// a1 quotes the sheet title for A1 notation, e.g. 'USDCNY'!1:1
func (w *Worksheet) a1(suffix string) string {
	r := "'" + strings.ReplaceAll(w.title, "'", "''") + "'"
	if suffix != "" {
		r += "!" + suffix
	}
	return r
}

func (w *Worksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	rng := w.a1(fmt.Sprintf("%d:%d", row, row))
	resp, err := w.svc.Spreadsheets.Values.Get(w.id, rng).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	return toStrings(resp.Values[0]), nil
}

func (w *Worksheet) AllValues(ctx context.Context) ([][]string, error) {
	resp, err := w.svc.Spreadsheets.Values.Get(w.id, w.a1("")).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	out := make([][]string, len(resp.Values))
	for i, r := range resp.Values {
		out[i] = toStrings(r)
	}
	return out, nil
}

func (w *Worksheet) Clear(ctx context.Context) error {
	_, err := w.svc.Spreadsheets.Values.Clear(w.id, w.a1(""), &sheets.ClearValuesRequest{}).Context(ctx).Do()
	return err
}

func (w *Worksheet) AppendRow(ctx context.Context, values []any, mode sheet.InputMode) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := w.svc.Spreadsheets.Values.Append(w.id, w.a1("A1"), vr).
		ValueInputOption(string(mode)).
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// toStrings formats cells the way they are displayed; the API returns
// FORMATTED_VALUE strings by default.
func toStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, v := range row {
		if s, ok := v.(string); ok {
			out[i] = s
		} else {
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}
