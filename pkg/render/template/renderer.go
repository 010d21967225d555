package template

import (
	"io"
)

// TemplateRenderer is the engine contract renderers rely on. Implementations
// return the rendered string and also copy it into any writers supplied.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
