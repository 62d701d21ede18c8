package fetcher

import (
	"testing"

	"fxsheet/internal/quote"

	"github.com/stretchr/testify/require"
)

const tableHTML = `<div id="historical_data_table">
  <table class="cr_dataTable">
    <thead><tr><th>Date</th><th>Open</th><th>High</th><th>Low</th><th>Close</th></tr></thead>
    <tbody>
      <tr><td> 03/10/25 </td><td>-</td><td>-</td><td>-</td><td>
        7.1782
      </td></tr>
      <tr><td>03/07/25</td><td>-</td><td>-</td><td>-</td><td>7.2345</td></tr>
    </tbody>
  </table>
</div>`

func TestFirstRow(t *testing.T) {
	raw, err := FirstRow(tableHTML, "table.cr_dataTable", 0, 4)
	require.NoError(t, err)
	require.Equal(t, quote.Raw{Date: "03/10/25", Close: "7.1782"}, raw)

	rec, err := quote.NewRecord(raw)
	require.NoError(t, err)
	require.Equal(t, quote.Record{Date: "2025-03-10", Close: 7.1782}, rec)
}

func TestFirstRowErrors(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			name: "no table",
			html: `<div id="historical_data_table"><p>loading</p></div>`,
			want: "not found",
		},
		{
			name: "empty body",
			html: `<table class="cr_dataTable"><tbody></tbody></table>`,
			want: "no body rows",
		},
		{
			name: "short row",
			html: `<table class="cr_dataTable"><tbody><tr><td>03/10/25</td><td>7.1</td></tr></tbody></table>`,
			want: "need 5",
		},
	}

	for _, test := range cases {
		t.Run(test.name, func(t *testing.T) {
			_, err := FirstRow(test.html, "table.cr_dataTable", 0, 4)
			require.ErrorContains(t, err, test.want)
		})
	}
}

func TestStageError(t *testing.T) {
	inner := errTest("boom")
	err := &StageError{Stage: StageData, Err: inner}
	require.ErrorIs(t, err, inner)
	require.Contains(t, err.Error(), "data could not be loaded")
}

type errTest string

func (e errTest) Error() string { return string(e) }
