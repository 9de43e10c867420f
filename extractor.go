package linktext

// Extractor pulls content fragments out of an HTML page.
type Extractor interface {
	// Extract parses html and returns the text of each qualifying node in
	// document order. A page without qualifying nodes yields an empty slice
	// and a nil error.
	Extract(html string) ([]string, error)
}
