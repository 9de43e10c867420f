package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linktext"
)

// Ensure LoggingScraper implements linktext.Scraper.
var _ linktext.Scraper = (*LoggingScraper)(nil)

// LoggingScraper wraps a Scraper with logging.
type LoggingScraper struct {
	next   linktext.Scraper
	logger *slog.Logger
}

// NewLoggingScraper creates a new LoggingScraper.
func NewLoggingScraper(next linktext.Scraper, logger *slog.Logger) *LoggingScraper {
	return &LoggingScraper{next: next, logger: logger}
}

// Scrape delegates to the wrapped scraper and logs the invocation.
func (s *LoggingScraper) Scrape(ctx context.Context, links []string) (doc string, err error) {
	defer func(begin time.Time) {
		s.logger.Info("scrape",
			"count", len(links),
			"chars", len([]rune(doc)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scrape(ctx, links)
}
