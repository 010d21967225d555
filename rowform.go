// Package rowform is the top-level entry point: a dynamic row form that
// renders one control per template column and reports edits, submission and
// cancellation through host callbacks.
package rowform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render"
	"github.com/goliatone/go-rowform/pkg/renderers/tui"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
)

// Template is the column layout a form renders.
type Template = model.Template

// Column is one template column.
type Column = model.Column

// FieldValues maps column names to stored values.
type FieldValues = model.FieldValues

// Callbacks are the host hooks a form invokes.
type Callbacks = form.Callbacks

// RenderOptions describes per-request data passed to renderers.
type RenderOptions = render.RenderOptions

// NewForm binds a template to host callbacks.
func NewForm(tmpl *Template, callbacks Callbacks, options ...form.Option) (*form.Form, error) {
	return form.New(tmpl, callbacks, options...)
}

// NewRenderers returns a registry holding the vanilla HTML renderer (the
// fallback) and the terminal renderer.
func NewRenderers(options ...vanilla.Option) (*render.Registry, error) {
	html, err := vanilla.New(options...)
	if err != nil {
		return nil, err
	}
	terminal, err := tui.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(html, terminal)
}

// RenderHTML renders tmpl with values as a standalone dialog. It is the
// simplest entry point for callers that just want markup and wire the
// callbacks themselves.
func RenderHTML(ctx context.Context, tmpl Template, values FieldValues, visible bool, opts RenderOptions, options ...vanilla.Option) ([]byte, error) {
	f, err := form.New(&tmpl, form.Callbacks{})
	if err != nil {
		return nil, fmt.Errorf("rowform: %w", err)
	}
	renderer, err := vanilla.New(options...)
	if err != nil {
		return nil, fmt.Errorf("rowform: %w", err)
	}
	return renderer.Render(ctx, f.Render(values, visible), opts)
}
