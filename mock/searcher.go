package mock

import (
	"context"

	"github.com/fwojciec/linktext"
)

var _ linktext.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of linktext.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]string, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]string, error) {
	return s.SearchFn(ctx, query)
}
