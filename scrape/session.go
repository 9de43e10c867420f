// Package scrape orchestrates the per-URL pipeline: fetch, conditional
// render, extract and normalize, with per-URL fault isolation and ordered
// aggregation.
package scrape

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/linktext"
)

// Session is the fetch resource scoped to one scrape invocation. It fetches
// pages statically and, when the detector asks for it, renders them in a
// browser. Close releases both fetchers exactly once.
//
// Session is safe for concurrent use if its fetchers are.
type Session struct {
	// Fetcher retrieves the static page body. Required.
	Fetcher linktext.Fetcher

	// Renderer executes client-side scripts. A nil Renderer disables
	// rendering; pages are then always used as fetched.
	Renderer linktext.Fetcher

	// Detector decides whether a static body needs rendering.
	// Defaults to a KeywordDetector with DefaultRenderKeywords.
	Detector linktext.RenderDetector

	// Limiter, if set, is waited on before each static fetch.
	Limiter linktext.DomainLimiter

	// Per-operation timeouts; zero means the linktext defaults.
	FetchTimeout  time.Duration
	RenderTimeout time.Duration

	closeOnce sync.Once
	closeErr  error
}

// Fetch retrieves rawURL and renders it when the static body looks
// script-driven. Errors carry EINVALID, EFETCH or ERENDER codes.
func (s *Session) Fetch(ctx context.Context, rawURL string) (*linktext.RawDocument, error) {
	u, err := parseTarget(rawURL)
	if err != nil {
		return nil, err
	}

	if s.Limiter != nil {
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return nil, linktext.Errorf(linktext.EFETCH, "rate limit wait: %v", err)
		}
	}

	html, err := s.fetchStatic(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if s.Renderer == nil || !s.detector().NeedsRender(html) {
		return &linktext.RawDocument{URL: rawURL, HTML: html}, nil
	}

	return s.Render(ctx, rawURL)
}

// Render retrieves rawURL through the renderer, bypassing the detector.
// Returns EINVALID if rendering is disabled.
func (s *Session) Render(ctx context.Context, rawURL string) (*linktext.RawDocument, error) {
	if s.Renderer == nil {
		return nil, linktext.Errorf(linktext.EINVALID, "rendering disabled")
	}

	ctx, cancel := context.WithTimeout(ctx, orDefault(s.RenderTimeout, linktext.DefaultRenderTimeout))
	defer cancel()

	html, err := s.Renderer.Fetch(ctx, rawURL)
	if err != nil {
		return nil, classify(linktext.ERENDER, err)
	}
	return &linktext.RawDocument{URL: rawURL, HTML: html, Rendered: true}, nil
}

// CanRender reports whether the session has a renderer.
func (s *Session) CanRender() bool {
	return s.Renderer != nil
}

// Close releases the renderer and the static fetcher. Subsequent calls
// return the result of the first.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		var errs []error
		if s.Renderer != nil {
			if err := s.Renderer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		if s.Fetcher != nil {
			if err := s.Fetcher.Close(); err != nil {
				errs = append(errs, err)
			}
		}
		s.closeErr = errors.Join(errs...)
	})
	return s.closeErr
}

func (s *Session) fetchStatic(ctx context.Context, rawURL string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, orDefault(s.FetchTimeout, linktext.DefaultFetchTimeout))
	defer cancel()

	html, err := s.Fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", classify(linktext.EFETCH, err)
	}
	return html, nil
}

func (s *Session) detector() linktext.RenderDetector {
	if s.Detector == nil {
		return defaultDetector
	}
	return s.Detector
}

var defaultDetector = NewKeywordDetector()

// parseTarget checks that rawURL is an absolute http(s) URL.
func parseTarget(rawURL string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, linktext.Errorf(linktext.EINVALID, "invalid URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, linktext.Errorf(linktext.EINVALID, "invalid URL %q: must be absolute", rawURL)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return nil, linktext.Errorf(linktext.EINVALID, "invalid URL %q: unsupported scheme %q", rawURL, u.Scheme)
	}
	return u, nil
}

// classify gives err the code when it carries none of its own.
func classify(code string, err error) error {
	var e *linktext.Error
	if errors.As(err, &e) {
		return err
	}
	return linktext.Errorf(code, "%v", err)
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
