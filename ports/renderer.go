package ports

import (
	"context"

	"gobalance/domain/plot"
)

// Renderer draws one figure. It either produces the complete image and returns
// where it went, or fails with core.ErrRenderFailed leaving nothing behind.
type Renderer interface {
	Render(ctx context.Context, spec plot.Spec) (string, error)
}
