package mock

import "github.com/fwojciec/linktext"

var _ linktext.RenderDetector = (*RenderDetector)(nil)

// RenderDetector is a mock implementation of linktext.RenderDetector.
type RenderDetector struct {
	NeedsRenderFn func(html string) bool
}

func (d *RenderDetector) NeedsRender(html string) bool {
	return d.NeedsRenderFn(html)
}
