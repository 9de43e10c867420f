package linktext

import (
	"context"
	"errors"
	"strings"
)

// SectionRule closes every section of an aggregate document.
var SectionRule = strings.Repeat("=", 50)

// RawDocument is the markup retrieved for a single URL.
type RawDocument struct {
	URL  string
	HTML string

	// Rendered reports whether the HTML came from a browser rendering pass.
	Rendered bool
}

// SourceBlock is the per-URL unit of an aggregate document. A block with a
// non-nil Err is a failure placeholder.
type SourceBlock struct {
	URL  string
	Text string
	Err  error

	// Rendered reports whether the text came from a rendered page.
	Rendered bool
}

// Failed reports whether the block is a failure placeholder.
func (b *SourceBlock) Failed() bool {
	return b.Err != nil
}

// Body returns the normalized text, or the failure placeholder when the
// block failed.
func (b *SourceBlock) Body() string {
	if b.Err != nil {
		return "Failed to scrape " + b.URL + ": " + Reason(b.Err)
	}
	return b.Text
}

// String renders the block as one section of an aggregate document.
func (b *SourceBlock) String() string {
	return "Source: " + b.URL + "\n\n" + b.Body() + "\n\n" + SectionRule + "\n"
}

// Reason returns a human-readable description of err. Application errors
// yield their message; other errors their full text.
func Reason(err error) string {
	var e *Error
	if err == nil {
		return ""
	} else if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// Scraper turns an ordered list of URLs into an aggregate document.
type Scraper interface {
	// Scrape fetches every link and returns the aggregate document. Failures
	// of individual links are reported inline; only invocation-wide failures
	// are returned as errors.
	Scrape(ctx context.Context, links []string) (string, error)
}
