package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/linktext"
)

// Ensure LoggingAsker implements linktext.Asker.
var _ linktext.Asker = (*LoggingAsker)(nil)

// LoggingAsker wraps an Asker with logging. Prompt and content are not
// logged, only their sizes.
type LoggingAsker struct {
	next   linktext.Asker
	logger *slog.Logger
}

// NewLoggingAsker creates a new LoggingAsker.
func NewLoggingAsker(next linktext.Asker, logger *slog.Logger) *LoggingAsker {
	return &LoggingAsker{next: next, logger: logger}
}

// Ask delegates to the wrapped asker and logs the exchange.
func (a *LoggingAsker) Ask(ctx context.Context, prompt, content string) (answer string, err error) {
	defer func(begin time.Time) {
		a.logger.Info("ask",
			"prompt_chars", len([]rune(prompt)),
			"content_chars", len([]rune(content)),
			"answer_chars", len([]rune(answer)),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Ask(ctx, prompt, content)
}
