// Package pipeline runs one fetch → parse → upsert cycle.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"fxsheet/internal/browser"
	"fxsheet/internal/config"
	"fxsheet/internal/diagnostics"
	"fxsheet/internal/quote"
	"fxsheet/internal/scraper"
	"fxsheet/internal/session"
	"fxsheet/internal/sheet"
	"fxsheet/internal/sheet/gsheets"
	"fxsheet/internal/sheet/xlsx"
)

// FetchFunc returns the raw first row of the source page.
type FetchFunc func(ctx context.Context) (quote.Raw, error)

// OpenFunc opens the destination spreadsheet. The returned closer may be nil.
type OpenFunc func(ctx context.Context) (sheet.Spreadsheet, io.Closer, error)

// Result describes what a run did.
type Result struct {
	Record      quote.Record
	Source      string
	Inserted    bool
	HeaderReset bool
}

// Runner owns the configuration and the pluggable steps of a run.
type Runner struct {
	cfg    config.Config
	source scraper.Source
	fetch  FetchFunc
	open   OpenFunc
	now    func() time.Time
}

type Option func(*Runner)

// WithFetch replaces the browser step.
func WithFetch(f FetchFunc) Option {
	return func(r *Runner) { r.fetch = f }
}

// WithSpreadsheet replaces the backend selected by the configuration.
func WithSpreadsheet(f OpenFunc) Option {
	return func(r *Runner) { r.open = f }
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) { r.now = now }
}

// New validates the configuration and resolves the source. Nothing touches
// the network until Run.
func New(cfg config.Config, opts ...Option) (*Runner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	source, ok := scraper.Get(cfg.Source)
	if !ok {
		return nil, fmt.Errorf("unknown source: %s (known: %v)", cfg.Source, scraper.Names())
	}

	r := &Runner{cfg: cfg, source: source, now: time.Now}
	r.fetch = r.fetchWithBrowser
	r.open = r.openBackend
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Run fetches the latest value and appends it unless its date is present.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	raw, err := r.fetch(ctx)
	if err != nil {
		return Result{}, err
	}
	rec, err := quote.NewRecord(raw)
	if err != nil {
		return Result{}, err
	}
	slog.Info("data obtained", "source", r.source.Name(), "date", rec.Date, "close", rec.Close)

	book, closer, err := r.open(ctx)
	if err != nil {
		return Result{}, err
	}
	if closer != nil {
		defer closer.Close()
	}

	ws, err := sheet.OpenOrCreate(ctx, book, r.cfg.Worksheet)
	if err != nil {
		return Result{}, err
	}
	reset, err := sheet.EnsureHeader(ctx, ws)
	if err != nil {
		return Result{}, err
	}
	inserted, err := sheet.AppendIfNew(ctx, ws, rec, r.source.URL(), r.now())
	if err != nil {
		return Result{}, err
	}

	return Result{
		Record:      rec,
		Source:      r.source.URL(),
		Inserted:    inserted,
		HeaderReset: reset,
	}, nil
}

func (r *Runner) fetchWithBrowser(ctx context.Context) (quote.Raw, error) {
	state, err := session.Load(r.cfg.SessionFile)
	if err != nil {
		return quote.Raw{}, err
	}

	headless := r.cfg.IsHeadless()
	slog.Info("launching browser", "headless", headless)
	b, err := browser.New(browser.Config{
		Headless:   headless,
		ProxyURL:   r.cfg.ProxyURL,
		BrowserBin: r.cfg.BrowserBin,
		NoSandbox:  r.cfg.NoSandbox,
	})
	if err != nil {
		return quote.Raw{}, err
	}
	defer b.Close()

	if err := b.LoadSession(state); err != nil {
		return quote.Raw{}, err
	}
	page, err := b.NewPage()
	if err != nil {
		return quote.Raw{}, fmt.Errorf("failed to create page: %w", err)
	}
	defer page.Close()

	return r.source.Fetch(ctx, page, scraper.Options{
		Timeout:     time.Duration(r.cfg.Timeout),
		Diagnostics: diagnostics.Recorder{Dir: r.cfg.DiagnosticsDir},
	})
}

func (r *Runner) openBackend(ctx context.Context) (sheet.Spreadsheet, io.Closer, error) {
	switch r.cfg.Backend {
	case config.BackendXLSX:
		book, err := xlsx.Open(r.cfg.XLSXPath)
		if err != nil {
			return nil, nil, err
		}
		return book, book, nil
	default:
		slog.Info("connecting to google sheets")
		book, err := gsheets.Open(ctx, r.cfg.SheetID, r.cfg.CredentialsFile)
		if err != nil {
			return nil, nil, err
		}
		return book, nil, nil
	}
}
