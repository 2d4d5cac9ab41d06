package orgmd2xhs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/tuiwo/orgmd2xhs/internal/imaging"
	"github.com/tuiwo/orgmd2xhs/internal/paginate"
)

// pageCapturer abstracts page capture to allow testing without a browser.
type pageCapturer interface {
	CapturePages(ctx context.Context, htmlPath, outDir string, cfg RenderConfig) (int, error)
	Close() error
}

// Compile-time interface check.
var _ pageCapturer = (*rodCapturer)(nil)

// animationKillJS suppresses CSS animations and transitions so pagination
// measures settled layouts.
const animationKillJS = `() => {
	const style = document.createElement('style');
	style.textContent = '* { animation: none !important; transition: none !important; }';
	document.head.appendChild(style);
}`

// rodCapturer captures page containers as PNG images using headless Chrome
// via go-rod. Rod automatically downloads Chromium on first run if not found.
type rodCapturer struct {
	browser *rod.Browser
	timeout time.Duration
}

// newRodCapturer creates a rodCapturer with the given timeout.
func newRodCapturer(timeout time.Duration) *rodCapturer {
	return &rodCapturer{timeout: timeout}
}

// ensureBrowser lazily connects to the browser.
func (c *rodCapturer) ensureBrowser() error {
	if c.browser != nil {
		return nil
	}

	l := launcher.New()

	// Use pre-installed browser if specified (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	c.browser = rod.New().ControlURL(u)
	if err := c.browser.Connect(); err != nil {
		c.browser = nil
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	return nil
}

// Close releases browser resources.
func (c *rodCapturer) Close() error {
	if c.browser != nil {
		err := c.browser.Close()
		c.browser = nil
		return err
	}
	return nil
}

// CapturePages loads the composed HTML document, paginates it, and captures
// each page container as a PNG named by its 3-digit 1-based index. Pages
// beyond cfg.MaxPages are silently not captured. Returns the number of
// images written.
//
// The step ordering is a strict invariant: load, disable animations,
// paginate once, enumerate, capture.
func (c *rodCapturer) CapturePages(ctx context.Context, htmlPath, outDir string, cfg RenderConfig) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := c.ensureBrowser(); err != nil {
		return 0, err
	}

	page, err := c.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             cfg.Width,
		Height:            cfg.Height,
		DeviceScaleFactor: deviceScaleFactor,
		Mobile:            false,
	}); err != nil {
		return 0, fmt.Errorf("%w: setting viewport: %v", ErrPageCreate, err)
	}

	// Use timeout from context deadline when tighter than the default.
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return 0, context.DeadlineExceeded
		}
	}

	if err := page.Timeout(timeout).Navigate("file://" + htmlPath); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if err := page.Timeout(timeout).WaitLoad(); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	if _, err := page.Eval(animationKillJS); err != nil {
		return 0, fmt.Errorf("%w: disabling animations: %v", ErrPageLoad, err)
	}

	surface, err := newDOMSurface(page)
	if err != nil {
		return 0, err
	}
	if _, err := paginate.New(surface).Run(ctx); err != nil {
		return 0, err
	}

	els, err := page.Elements(".page")
	if err != nil {
		return 0, fmt.Errorf("enumerating pages: %w", err)
	}
	if len(els) == 0 {
		return 0, fmt.Errorf("%w: check template and input content", ErrNoPages)
	}

	count := len(els)
	if count > cfg.MaxPages {
		count = cfg.MaxPages
	}

	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}

		bin, err := els[i].Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
		if err != nil {
			return 0, fmt.Errorf("capturing page %d: %w", i+1, err)
		}

		path := filepath.Join(outDir, pageFileName(i+1))
		if err := os.WriteFile(path, bin, 0o644); err != nil { // #nosec G306 -- rendered images are shareable artifacts
			return 0, fmt.Errorf("writing page %d: %w", i+1, err)
		}

		// The viewport runs at 2x density, so captures come back doubled.
		if err := imaging.EnsureSize(path, cfg.Width, cfg.Height); err != nil {
			return 0, fmt.Errorf("normalizing page %d: %w", i+1, err)
		}
	}

	return count, nil
}

// pageFileName returns the 3-digit zero-padded image name for a 1-based
// page index (e.g. "001.png").
func pageFileName(index int) string {
	return fmt.Sprintf("%03d.png", index)
}
