package fetcher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fxsheet/internal/diagnostics"
	"fxsheet/internal/quote"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Stage 抓取阶段，用于定位失败位置
type Stage string

const (
	StageLoad Stage = "load" // 导航 + 等待表格容器挂载
	StageData Stage = "data" // 滚动 + 等待首行可见
	StageRead Stage = "read" // 读取首行单元格
)

// StageError 描述在哪个阶段失败
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageLoad:
		return fmt.Sprintf("the page did not load the table container in time: %v", e.Err)
	case StageData:
		return fmt.Sprintf("data could not be loaded into the table: %v", e.Err)
	default:
		return fmt.Sprintf("error reading row after data was loaded: %v", e.Err)
	}
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Target 目标页面及其表格定位方式
type Target struct {
	URL       string
	Container string // 表格容器选择器，例如 div#historical_data_table
	Table     string // 容器内的表格选择器，例如 table.cr_dataTable
	DateCell  int
	CloseCell int
}

const (
	attachMargin = 5 * time.Second // 从总超时中预留给容器挂载之外的余量
	settleDelay  = 2 * time.Second
	rowTimeout   = 15 * time.Second // 固定值，不随总超时变化
)

// Fetcher 页面抓取器
type Fetcher struct {
	target   Target
	recorder diagnostics.Recorder
}

// NewFetcher 创建新的 Fetcher 实例
func NewFetcher(target Target, recorder diagnostics.Recorder) *Fetcher {
	return &Fetcher{
		target:   target,
		recorder: recorder,
	}
}

// Fetch 在已载入会话的页面上抓取首行
// timeout: 导航与容器挂载的总超时
func (f *Fetcher) Fetch(ctx context.Context, page *rod.Page, timeout time.Duration) (quote.Raw, error) {
	p := page.Context(ctx)

	slog.Info("navigating", "url", f.target.URL, "timeout", timeout)
	container, err := f.load(p, timeout)
	if err != nil {
		slog.Error("critical error during page load or table location", "error", err)
		f.recorder.Capture(page, "wsj_load_error")
		return quote.Raw{}, &StageError{Stage: StageLoad, Err: err}
	}

	slog.Info("table container located, scrolling")
	if err := f.waitRows(ctx, container); err != nil {
		slog.Error("error scrolling or loading table data", "error", err)
		f.recorder.Capture(page, "wsj_data_load_error")
		return quote.Raw{}, &StageError{Stage: StageData, Err: err}
	}

	slog.Info("reading the first row of the table")
	raw, err := f.readRow(container)
	if err != nil {
		f.recorder.Capture(page, "wsj_read_row_error")
		return quote.Raw{}, &StageError{Stage: StageRead, Err: err}
	}
	slog.Debug("first row", "date", raw.Date, "close", raw.Close)
	return raw, nil
}

// load 导航到目标页，等待 DOMContentLoaded 与容器挂载
func (f *Fetcher) load(p *rod.Page, timeout time.Duration) (*rod.Element, error) {
	nav := p.Timeout(timeout)
	wait := nav.WaitNavigation(proto.PageLifecycleEventNameDOMContentLoaded)
	if err := nav.Navigate(f.target.URL); err != nil {
		return nil, fmt.Errorf("failed to navigate: %w", err)
	}
	wait()

	attach := timeout - attachMargin
	if attach <= 0 {
		attach = timeout
	}
	slog.Info("base page loaded, waiting for the table container", "selector", f.target.Container)
	// Element 会重试直到节点出现在 DOM 中，即 attached
	container, err := p.Timeout(attach).Element(f.target.Container)
	if err != nil {
		return nil, fmt.Errorf("failed to wait for element '%s': %w", f.target.Container, err)
	}
	return container.CancelTimeout(), nil
}

// waitRows 滚动到容器并等待首行可见
func (f *Fetcher) waitRows(ctx context.Context, container *rod.Element) error {
	if err := container.ScrollIntoView(); err != nil {
		return fmt.Errorf("failed to scroll container into view: %w", err)
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(settleDelay):
	}

	selector := f.target.Table + " tbody tr"
	slog.Info("waiting for data rows", "selector", selector)
	row, err := container.Timeout(rowTimeout).Element(selector)
	if err != nil {
		return fmt.Errorf("no data row appeared: %w", err)
	}
	if err := row.WaitVisible(); err != nil {
		return fmt.Errorf("first row never became visible: %w", err)
	}
	return nil
}

// readRow 读取容器渲染后的 HTML 并解析首行
func (f *Fetcher) readRow(container *rod.Element) (quote.Raw, error) {
	html, err := container.HTML()
	if err != nil {
		return quote.Raw{}, fmt.Errorf("failed to read table html: %w", err)
	}
	return FirstRow(html, f.target.Table, f.target.DateCell, f.target.CloseCell)
}
