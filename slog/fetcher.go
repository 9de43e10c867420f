// Package slog provides logging decorators for linktext services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linktext"
)

// Ensure LoggingFetcher implements linktext.Fetcher.
var _ linktext.Fetcher = (*LoggingFetcher)(nil)

// LoggingFetcher wraps a Fetcher with logging. The op attribute tells the
// static fetcher and the renderer apart in the log stream.
type LoggingFetcher struct {
	next   linktext.Fetcher
	op     string
	logger *slog.Logger
}

// NewLoggingFetcher creates a new LoggingFetcher logging under "fetch".
func NewLoggingFetcher(next linktext.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, op: "fetch", logger: logger}
}

// NewLoggingRenderer creates a LoggingFetcher logging under "render".
func NewLoggingRenderer(next linktext.Fetcher, logger *slog.Logger) *LoggingFetcher {
	return &LoggingFetcher{next: next, op: "render", logger: logger}
}

// Fetch delegates to the wrapped fetcher and logs the operation at debug
// level.
func (f *LoggingFetcher) Fetch(ctx context.Context, url string) (html string, err error) {
	defer func(begin time.Time) {
		f.logger.Debug(f.op,
			"url", url,
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return f.next.Fetch(ctx, url)
}

// Close delegates to the wrapped fetcher.
func (f *LoggingFetcher) Close() error {
	return f.next.Close()
}
