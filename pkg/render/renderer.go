package render

import (
	"context"

	"github.com/goliatone/go-rowform/pkg/form"
)

// Renderer converts a form presentation into a byte representation (HTML,
// terminal text, etc.).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, presentation form.Presentation, options RenderOptions) ([]byte, error)
}
