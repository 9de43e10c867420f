// Package goquery implements linktext.Extractor on top of goquery.
package goquery

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/linktext"
	"golang.org/x/net/html"
)

// NoiseSelector matches subtrees that never carry page content.
const NoiseSelector = "script, style, header, footer, nav, aside, iframe, noscript"

// ContentSelector matches nodes holding narrative or list content.
const ContentSelector = "p, h1, h2, h3, h4, h5, h6, li"

// Ensure Extractor implements linktext.Extractor at compile time.
var _ linktext.Extractor = (*Extractor)(nil)

// Extractor pulls paragraph, heading and list-item text out of HTML after
// removing boilerplate subtrees.
type Extractor struct {
	minLength int
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithMinFragmentLength sets the length, in characters, a fragment must
// exceed to be kept. Defaults to linktext.DefaultMinFragmentLength.
func WithMinFragmentLength(n int) ExtractorOption {
	return func(e *Extractor) {
		e.minLength = n
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{minLength: linktext.DefaultMinFragmentLength}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns the trimmed text of every content node in document order.
// Nodes inside noise subtrees are never visited, and fragments whose length
// does not exceed the minimum are dropped as labels or navigation crumbs.
func (e *Extractor) Extract(input string) ([]string, error) {
	root, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return nil, linktext.Errorf(linktext.EPARSE, "failed to parse HTML: %v", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find(NoiseSelector).Remove()

	fragments := []string{}
	doc.Find(ContentSelector).Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) <= e.minLength {
			return
		}
		fragments = append(fragments, text)
	})

	return fragments, nil
}
