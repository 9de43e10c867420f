package mock

import (
	"context"

	"github.com/fwojciec/linktext"
)

var _ linktext.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of linktext.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

// Close calls CloseFn, or returns nil when CloseFn is unset.
func (f *Fetcher) Close() error {
	if f.CloseFn == nil {
		return nil
	}
	return f.CloseFn()
}
