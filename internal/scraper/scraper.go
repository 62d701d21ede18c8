package scraper

import (
	"context"
	"time"

	"fxsheet/internal/diagnostics"
	"fxsheet/internal/quote"

	"github.com/go-rod/rod"
)

// Source is a page that publishes one daily value.
type Source interface {
	Name() string
	URL() string
	Fetch(ctx context.Context, page *rod.Page, opts Options) (quote.Raw, error)
}

type Options struct {
	Timeout     time.Duration
	Diagnostics diagnostics.Recorder
}
