package scrape

import (
	"strings"

	"github.com/fwojciec/linktext"
)

// DefaultRenderKeywords are the substrings that mark a page as script-driven.
var DefaultRenderKeywords = []string{"javascript", "dynamic"}

// Ensure KeywordDetector implements linktext.RenderDetector at compile time.
var _ linktext.RenderDetector = (*KeywordDetector)(nil)

// KeywordDetector flags a page for rendering when its raw body contains any
// of a set of keywords, compared case-insensitively. It is a cheap
// approximation: script-heavy pages without the keywords are not flagged.
type KeywordDetector struct {
	keywords []string
}

// NewKeywordDetector creates a KeywordDetector. With no keywords it uses
// DefaultRenderKeywords.
func NewKeywordDetector(keywords ...string) *KeywordDetector {
	if len(keywords) == 0 {
		keywords = DefaultRenderKeywords
	}
	d := &KeywordDetector{keywords: make([]string, 0, len(keywords))}
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			d.keywords = append(d.keywords, k)
		}
	}
	return d
}

// NeedsRender reports whether html contains any keyword.
func (d *KeywordDetector) NeedsRender(html string) bool {
	lower := strings.ToLower(html)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// AnyDetector flags a page when any of its detectors does.
type AnyDetector []linktext.RenderDetector

// NeedsRender implements linktext.RenderDetector.
func (a AnyDetector) NeedsRender(html string) bool {
	for _, d := range a {
		if d.NeedsRender(html) {
			return true
		}
	}
	return false
}
