// Package linktext turns an ordered list of URLs into a single, bounded
// plain-text document suitable as context for a language model. Each page is
// fetched (and rendered in a headless browser when it looks script-driven),
// stripped of boilerplate markup, normalized, and attributed to its source.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, rod/, http/).
package linktext

import "time"

// Defaults for the scraping pipeline.
const (
	DefaultFetchTimeout      = 10 * time.Second
	DefaultRenderTimeout     = 20 * time.Second
	DefaultMinFragmentLength = 20
	DefaultMaxLength         = 100000
)
