// Package rod renders script-driven pages in headless Chrome via go-rod.
package rod

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/fwojciec/linktext"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultRenderTimeout bounds a single render.
const DefaultRenderTimeout = linktext.DefaultRenderTimeout

// Ensure Renderer implements linktext.Fetcher at compile time.
var _ linktext.Fetcher = (*Renderer)(nil)

// Renderer loads URLs in headless Chrome, lets their scripts run, and
// returns the resulting DOM. Chrome is only started on the first Fetch.
// Renderer is safe for concurrent use by multiple goroutines.
type Renderer struct {
	manager *BrowserManager
	timeout time.Duration
	closed  atomic.Bool
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRenderTimeout sets the timeout for a single render.
// Defaults to DefaultRenderTimeout (20s) if not specified.
func WithRenderTimeout(d time.Duration) Option {
	return func(r *Renderer) {
		r.timeout = d
	}
}

// WithBrowserManager replaces the renderer's browser manager.
func WithBrowserManager(bm *BrowserManager) Option {
	return func(r *Renderer) {
		r.manager = bm
	}
}

// NewRenderer creates a new Renderer. Close must be called when the
// Renderer is no longer needed.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		timeout: DefaultRenderTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.manager == nil {
		r.manager = NewBrowserManager()
	}
	return r
}

// Fetch navigates to the URL, waits for the page to load, and returns the
// rendered HTML. Failures are reported as ERENDER errors.
func (r *Renderer) Fetch(ctx context.Context, url string) (string, error) {
	if r.closed.Load() {
		return "", linktext.Errorf(linktext.EINVALID, "renderer closed")
	}
	if err := ctx.Err(); err != nil {
		return "", linktext.Errorf(linktext.ERENDER, "%v", err)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	browser, err := r.manager.Browser()
	if err != nil {
		if linktext.ErrorCode(err) == linktext.EINVALID {
			return "", err
		}
		return "", linktext.Errorf(linktext.ERENDER, "%v", err)
	}

	html, err := r.render(ctx, browser, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", linktext.Errorf(linktext.ERENDER, "render timed out after %s", r.timeout)
		}
		return "", linktext.Errorf(linktext.ERENDER, "%v", err)
	}
	r.manager.IncrementPageCount()

	return html, nil
}

func (r *Renderer) render(ctx context.Context, browser *rod.Browser, url string) (string, error) {
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", err
	}
	defer page.Close()

	page = page.Context(ctx)

	if err := page.Navigate(url); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", err
	}
	return page.HTML()
}

// Close releases browser resources. Close is safe to call multiple times.
func (r *Renderer) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return nil
	}
	return r.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher, or 0 when no
// browser has been launched.
func (r *Renderer) LauncherPID() int {
	return r.manager.LauncherPID()
}
