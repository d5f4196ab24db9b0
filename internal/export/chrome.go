package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/jonathan/oneclickresume/internal/rendering"
)

// Viewport of the capture browser in CSS pixels: A4 at 96 dpi.
const (
	ViewportWidth  = 794
	ViewportHeight = 1123
)

// DefaultRasterizeTimeout bounds one browser session.
const DefaultRasterizeTimeout = 60 * time.Second

// Rasterizer captures the element referenced by a handle as an image.
type Rasterizer interface {
	Rasterize(ctx context.Context, h rendering.Handle, scale float64) (image.Image, error)
}

// ChromeRasterizer captures pages with a headless Chrome. It needs Chrome or
// Chromium installed; ExecPath overrides the binary lookup.
type ChromeRasterizer struct {
	ExecPath string
	Timeout  time.Duration
	Verbose  bool
}

// NewChromeRasterizer returns a rasterizer using the CHROME_PATH environment
// variable when set.
func NewChromeRasterizer(verbose bool) *ChromeRasterizer {
	return &ChromeRasterizer{ExecPath: os.Getenv("CHROME_PATH"), Timeout: DefaultRasterizeTimeout, Verbose: verbose}
}

// Rasterize loads the handle's page from a temporary file, measures the
// referenced element and screenshots it at the given device scale factor.
func (c *ChromeRasterizer) Rasterize(ctx context.Context, h rendering.Handle, scale float64) (image.Image, error) {
	if !h.Attached() {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "handle is not attached"}
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultRasterizeTimeout
	}
	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "oneclick-export-")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	pagePath := filepath.Join(tmpDir, "index.html")
	if err := os.WriteFile(pagePath, h.Page(), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write page: %w", err)
	}

	if c.Verbose {
		log.Printf("[export] Capturing %s at %.0fx", h.Selector(), scale)
	}

	var (
		box  []float64
		shot []byte
	)
	measure := fmt.Sprintf(`(function(){var el=document.getElementById(%q);if(!el){return [0,0];}var r=el.getBoundingClientRect();return [r.width,r.height];})()`, h.ID())

	err = chromedp.Run(browserCtx,
		chromedp.EmulateViewport(ViewportWidth, ViewportHeight, chromedp.EmulateScale(scale)),
		chromedp.Navigate("file://"+pagePath),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(measure, &box),
	)
	if err != nil {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "browser failed to load page", Cause: err}
	}
	if len(box) != 2 || box[0] <= 0 || box[1] <= 0 {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "element has zero size"}
	}

	err = chromedp.Run(browserCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			shot, err = page.CaptureScreenshot().
				WithFormat(page.CaptureScreenshotFormatPng).
				WithCaptureBeyondViewport(true).
				WithClip(&page.Viewport{X: 0, Y: 0, Width: box[0], Height: box[1], Scale: 1}).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &RenderTargetUnavailableError{HandleID: h.ID(), Reason: "screenshot failed", Cause: err}
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, fmt.Errorf("failed to decode screenshot: %w", err)
	}
	if c.Verbose {
		log.Printf("[export] Captured %dx%d px", img.Bounds().Dx(), img.Bounds().Dy())
	}
	return img, nil
}
