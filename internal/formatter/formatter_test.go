package formatter

import (
	"testing"

	"fxsheet/internal/pipeline"
	"fxsheet/internal/quote"

	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	res := pipeline.Result{
		Record:   quote.Record{Date: "2025-03-10", Close: 7.1782},
		Source:   "https://example.com",
		Inserted: true,
	}

	out, err := Format(res, "text")
	require.NoError(t, err)
	require.Equal(t, "inserted 2025-03-10 close=7.1782", out)

	out, err = Format(res, "json")
	require.NoError(t, err)
	require.JSONEq(t, `{"date":"2025-03-10","close":7.1782,"source":"https://example.com","inserted":true,"headerReset":false}`, out)

	out, err = Format(res, "csv")
	require.NoError(t, err)
	require.Equal(t, "date,close,source,inserted\n2025-03-10,7.1782,https://example.com,true\n", out)

	res.Inserted = false
	out, err = Format(res, "text")
	require.NoError(t, err)
	require.Contains(t, out, "already present")

	_, err = Format(res, "xml")
	require.Error(t, err)
}
