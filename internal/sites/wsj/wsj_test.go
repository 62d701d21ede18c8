package wsj

import (
	"testing"

	"fxsheet/internal/scraper"

	"github.com/stretchr/testify/require"
)

func TestRegistered(t *testing.T) {
	s, ok := scraper.Get("WSJ.USDCNY")
	require.True(t, ok)
	require.Equal(t, HistoricalPricesURL, s.URL())
	require.Contains(t, scraper.Names(), "wsj.usdcny")
}
