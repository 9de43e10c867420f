package mock

import (
	"context"

	"github.com/fwojciec/linktext"
)

var _ linktext.Scraper = (*Scraper)(nil)

// Scraper is a mock implementation of linktext.Scraper.
type Scraper struct {
	ScrapeFn func(ctx context.Context, links []string) (string, error)
}

func (s *Scraper) Scrape(ctx context.Context, links []string) (string, error) {
	return s.ScrapeFn(ctx, links)
}
