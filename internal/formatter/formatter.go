package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"

	"fxsheet/internal/pipeline"
)

// Format renders a run result for stdout.
func Format(res pipeline.Result, format string) (string, error) {
	switch format {
	case "text":
		if res.Inserted {
			return fmt.Sprintf("inserted %s close=%s", res.Record.Date, formatClose(res.Record.Close)), nil
		}
		return fmt.Sprintf("%s already present, nothing inserted", res.Record.Date), nil
	case "json":
		b, err := json.Marshal(struct {
			Date        string  `json:"date"`
			Close       float64 `json:"close"`
			Source      string  `json:"source"`
			Inserted    bool    `json:"inserted"`
			HeaderReset bool    `json:"headerReset"`
		}{
			Date:        res.Record.Date,
			Close:       res.Record.Close,
			Source:      res.Source,
			Inserted:    res.Inserted,
			HeaderReset: res.HeaderReset,
		})
		if err != nil {
			return "", err
		}
		return string(b), nil
	case "csv":
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		_ = w.Write([]string{"date", "close", "source", "inserted"})
		_ = w.Write([]string{res.Record.Date, formatClose(res.Record.Close), res.Source, strconv.FormatBool(res.Inserted)})
		w.Flush()
		return buf.String(), w.Error()
	default:
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
}

func formatClose(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
