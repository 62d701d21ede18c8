package fetcher

import (
	"fmt"
	"strings"

	"fxsheet/internal/quote"

	"github.com/PuerkitoBio/goquery"
)

// FirstRow extracts the date and close cells of the first body row of the
// table matched by tableSelector inside html.
func FirstRow(html, tableSelector string, dateCell, closeCell int) (quote.Raw, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return quote.Raw{}, fmt.Errorf("failed to parse table html: %w", err)
	}

	table := doc.Find(tableSelector).First()
	if table.Length() == 0 {
		return quote.Raw{}, fmt.Errorf("table %q not found", tableSelector)
	}
	row := table.Find("tbody tr").First()
	if row.Length() == 0 {
		return quote.Raw{}, fmt.Errorf("table %q has no body rows", tableSelector)
	}

	cells := row.Find("td")
	need := max(dateCell, closeCell) + 1
	if cells.Length() < need {
		return quote.Raw{}, fmt.Errorf("first row has %d cells, need %d", cells.Length(), need)
	}

	return quote.Raw{
		Date:  strings.TrimSpace(cells.Eq(dateCell).Text()),
		Close: strings.TrimSpace(cells.Eq(closeCell).Text()),
	}, nil
}
