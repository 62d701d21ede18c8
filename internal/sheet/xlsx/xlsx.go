// Package xlsx implements sheet.Spreadsheet on a local .xlsx workbook.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"fxsheet/internal/sheet"

	"github.com/xuri/excelize/v2"
)

// Workbook is a workbook file. Every mutation is saved immediately.
type Workbook struct {
	path string
	file *excelize.File

	// fresh is set until the first worksheet replaces the default Sheet1
	fresh bool
}

// Open loads the workbook at path, starting an empty one if it does not exist.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Workbook{path: path, file: excelize.NewFile(), fresh: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return &Workbook{path: path, file: f}, nil
}

func (b *Workbook) Close() error {
	return b.file.Close()
}

func (b *Workbook) save() error {
	if err := b.file.SaveAs(b.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", b.path, err)
	}
	return nil
}

func (b *Workbook) Worksheet(_ context.Context, title string) (sheet.Worksheet, error) {
	idx, err := b.file.GetSheetIndex(title)
	if err != nil {
		return nil, err
	}
	if idx < 0 || b.fresh {
		return nil, sheet.ErrWorksheetNotFound
	}
	return &Worksheet{book: b, title: title}, nil
}

// AddWorksheet creates the tab. Row and column counts are not fixed in xlsx.
func (b *Workbook) AddWorksheet(_ context.Context, title string, _, _ int) (sheet.Worksheet, error) {
	if b.fresh {
		// reuse the default tab of a new workbook instead of leaving it empty
		if err := b.file.SetSheetName(b.file.GetSheetName(0), title); err != nil {
			return nil, err
		}
		b.fresh = false
	} else if _, err := b.file.NewSheet(title); err != nil {
		return nil, err
	}
	if err := b.save(); err != nil {
		return nil, err
	}
	return &Worksheet{book: b, title: title}, nil
}

// Worksheet is one tab of a Workbook.
type Worksheet struct {
	book  *Workbook
	title string
}

func (w *Worksheet) Title() string {
	return w.title
}

func (w *Worksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	rows, err := w.AllValues(ctx)
	if err != nil {
		return nil, err
	}
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	return rows[row-1], nil
}

func (w *Worksheet) AllValues(context.Context) ([][]string, error) {
	rows, err := w.book.file.GetRows(w.title)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (w *Worksheet) Clear(ctx context.Context) error {
	rows, err := w.AllValues(ctx)
	if err != nil {
		return err
	}
	for i := len(rows); i >= 1; i-- {
		if err := w.book.file.RemoveRow(w.title, i); err != nil {
			return err
		}
	}
	return w.book.save()
}

// AppendRow writes after the last non-empty row. In Raw mode every value is
// stored as text; UserEntered keeps numbers numeric.
func (w *Worksheet) AppendRow(ctx context.Context, values []any, mode sheet.InputMode) error {
	rows, err := w.AllValues(ctx)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(rows)+1)
	if err != nil {
		return err
	}

	row := values
	if mode == sheet.Raw {
		row = make([]any, len(values))
		for i, v := range values {
			row[i] = rawString(v)
		}
	}
	if err := w.book.file.SetSheetRow(w.title, cell, &row); err != nil {
		return err
	}
	return w.book.save()
}

func rawString(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
