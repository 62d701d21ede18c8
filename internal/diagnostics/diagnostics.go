// Package diagnostics saves what the browser was showing when a scrape failed.
package diagnostics

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Recorder writes screenshots and page snapshots into Dir.
type Recorder struct {
	Dir string
}

// Capture saves <name>.png and <name>.md for the page. Failures are logged
// and never override the error that triggered the capture.
func (r Recorder) Capture(page *rod.Page, name string) {
	if page == nil {
		return
	}
	dir := r.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Warn("cannot create diagnostics dir", "dir", dir, "error", err)
		return
	}

	shot := filepath.Join(dir, name+".png")
	img, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		slog.Warn("screenshot failed", "error", err)
	} else if err := os.WriteFile(shot, img, 0644); err != nil {
		slog.Warn("cannot write screenshot", "path", shot, "error", err)
	} else {
		slog.Info("diagnostic screenshot saved", "path", shot)
	}

	html, err := page.HTML()
	if err != nil {
		slog.Warn("cannot read page html", "error", err)
		return
	}
	snapshot, err := Snapshot(html)
	if err != nil {
		slog.Warn("cannot convert page to markdown", "error", err)
		return
	}
	mdPath := filepath.Join(dir, name+".md")
	if err := os.WriteFile(mdPath, []byte(snapshot), 0644); err != nil {
		slog.Warn("cannot write page snapshot", "path", mdPath, "error", err)
		return
	}
	slog.Info("page snapshot saved", "path", mdPath)
}

// Snapshot renders page HTML as markdown so a captcha wall or an empty table
// can be read without opening the screenshot.
func Snapshot(html string) (string, error) {
	converter := md.NewConverter("", true, nil)
	converter.Remove("script", "style", "noscript", "svg")
	out, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert html: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
