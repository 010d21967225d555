package tui

import "github.com/goliatone/go-rowform/pkg/render"

// Outcome reports how a terminal session ended.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeCancelled Outcome = "cancelled"
)

// ClearDateToken is the answer that clears a date column.
const ClearDateToken = "-"

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithPageSize limits how many menu entries a select prompt shows at once.
func WithPageSize(size int) Option {
	return func(r *Renderer) {
		if size > 0 {
			r.pageSize = size
		}
	}
}

// WithRenderOptions localises prompt captions during Run using the
// translator carried by opts.
func WithRenderOptions(opts render.RenderOptions) Option {
	return func(r *Renderer) {
		r.renderOptions = opts
	}
}
