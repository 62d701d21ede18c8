package gsheets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestA1(t *testing.T) {
	w := &Worksheet{title: "USDCNY"}
	require.Equal(t, "'USDCNY'!1:1", w.a1("1:1"))
	require.Equal(t, "'USDCNY'", w.a1(""))

	quoted := &Worksheet{title: "Bob's rates"}
	require.Equal(t, "'Bob''s rates'!A1", quoted.a1("A1"))
}

func TestToStrings(t *testing.T) {
	require.Equal(t, []string{"2025-03-10", "7.1782", "true"}, toStrings([]interface{}{"2025-03-10", 7.1782, true}))
}
