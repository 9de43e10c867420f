package mock

import (
	"context"

	"github.com/fwojciec/linktext"
)

var _ linktext.Asker = (*Asker)(nil)

// Asker is a mock implementation of linktext.Asker.
type Asker struct {
	AskFn func(ctx context.Context, prompt, content string) (string, error)
}

func (a *Asker) Ask(ctx context.Context, prompt, content string) (string, error) {
	return a.AskFn(ctx, prompt, content)
}
