package mock

import "github.com/fwojciec/linktext"

var _ linktext.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of linktext.Extractor.
type Extractor struct {
	ExtractFn func(html string) ([]string, error)
}

func (e *Extractor) Extract(html string) ([]string, error) {
	return e.ExtractFn(html)
}
