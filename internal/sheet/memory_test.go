package sheet

import (
	"context"
	"fmt"
	"strconv"
)

type memorySheet struct {
	title   string
	rows    [][]string
	appends int
	clears  int
}

func (m *memorySheet) Title() string { return m.title }

func (m *memorySheet) RowValues(_ context.Context, row int) ([]string, error) {
	if row < 1 || row > len(m.rows) {
		return nil, nil
	}
	return append([]string(nil), m.rows[row-1]...), nil
}

func (m *memorySheet) AllValues(context.Context) ([][]string, error) {
	out := make([][]string, len(m.rows))
	for i, r := range m.rows {
		out[i] = append([]string(nil), r...)
	}
	return out, nil
}

func (m *memorySheet) Clear(context.Context) error {
	m.clears++
	m.rows = nil
	return nil
}

func (m *memorySheet) AppendRow(_ context.Context, values []any, _ InputMode) error {
	m.appends++
	row := make([]string, len(values))
	for i, v := range values {
		switch v := v.(type) {
		case float64:
			row[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			row[i] = fmt.Sprint(v)
		}
	}
	m.rows = append(m.rows, row)
	return nil
}

type memoryBook struct {
	sheets map[string]*memorySheet
}

func (b *memoryBook) Worksheet(_ context.Context, title string) (Worksheet, error) {
	ws, ok := b.sheets[title]
	if !ok {
		return nil, ErrWorksheetNotFound
	}
	return ws, nil
}

func (b *memoryBook) AddWorksheet(_ context.Context, title string, _, _ int) (Worksheet, error) {
	ws := &memorySheet{title: title}
	b.sheets[title] = ws
	return ws, nil
}
