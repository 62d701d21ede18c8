package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshot(t *testing.T) {
	html := `<html><head><script>var x = 1;</script><style>p{}</style></head>
<body><h1>Please verify you are a human</h1><p>Press &amp; hold the button</p></body></html>`

	out, err := Snapshot(html)
	require.NoError(t, err)
	require.Contains(t, out, "# Please verify you are a human")
	require.Contains(t, out, "Press & hold the button")
	require.NotContains(t, out, "var x")
}

func TestCaptureNilPage(t *testing.T) {
	dir := t.TempDir()
	Recorder{Dir: dir}.Capture(nil, "noop")
}
