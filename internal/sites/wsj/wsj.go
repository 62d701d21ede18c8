package wsj

import (
	"context"

	"fxsheet/internal/fetcher"
	"fxsheet/internal/quote"
	"fxsheet/internal/scraper"

	"github.com/go-rod/rod"
)

// HistoricalPricesURL is the USD/CNY historical prices page.
const HistoricalPricesURL = "https://www.wsj.com/market-data/quotes/fx/USDCNY/historical-prices#"

// Target locates the close column in the historical prices table.
var Target = fetcher.Target{
	URL:       HistoricalPricesURL,
	Container: "div#historical_data_table",
	Table:     "table.cr_dataTable",
	DateCell:  0,
	CloseCell: 4,
}

func init() {
	scraper.Register(&USDCNY{})
}

// USDCNY implements scraper.Source for the WSJ USD/CNY page
type USDCNY struct{}

func (s *USDCNY) Name() string {
	return "wsj.usdcny"
}

func (s *USDCNY) URL() string {
	return HistoricalPricesURL
}

func (s *USDCNY) Fetch(ctx context.Context, page *rod.Page, opts scraper.Options) (quote.Raw, error) {
	return fetcher.NewFetcher(Target, opts.Diagnostics).Fetch(ctx, page, opts.Timeout)
}
