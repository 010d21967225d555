package form

import (
	"errors"
	"strings"

	"github.com/goliatone/go-rowform/pkg/model"
)

// ErrNilTemplate is returned when a form is constructed without a template.
var ErrNilTemplate = errors.New("form: template is required")

// Callbacks are the host-supplied hooks. The form never mutates field values
// itself; every edit is routed through OnChange.
type Callbacks struct {
	OnChange func(column, value string)
	OnSubmit func()
	OnCancel func()
}

// Labels holds the chrome strings shown around the fields. Entries containing
// %s receive the template or column name.
type Labels struct {
	Title             string
	Subtitle          string
	TextPlaceholder   string
	SelectPlaceholder string
	UserPlaceholder   string
	DatePlaceholder   string
	Submit            string
	Cancel            string
}

// DefaultLabels returns the English captions.
func DefaultLabels() Labels {
	return Labels{
		Title:             "Add New Row",
		Subtitle:          "To %s Template",
		TextPlaceholder:   "Enter %s",
		SelectPlaceholder: "Select %s",
		UserPlaceholder:   "Select User",
		DatePlaceholder:   "Select date",
		Submit:            "Add Row",
		Cancel:            "Cancel",
	}
}

// Option configures a Form.
type Option func(*config)

type config struct {
	dateLayout string
	labels     Labels
}

// WithDateLayout sets the time layout used to display stored dates. An empty
// layout keeps the long form ("March 15th, 2024").
func WithDateLayout(layout string) Option {
	return func(cfg *config) {
		cfg.dateLayout = strings.TrimSpace(layout)
	}
}

// WithLabels overrides chrome captions. Empty entries keep their defaults.
func WithLabels(labels Labels) Option {
	return func(cfg *config) {
		cfg.labels = mergeLabels(cfg.labels, labels)
	}
}

// Form is the dynamic row form descriptor: a template plus the host's
// callbacks. It holds no field state and can be rendered any number of times.
type Form struct {
	template  *model.Template
	callbacks Callbacks
	cfg       config
}

// New builds a form for tmpl. The template is read by reference and must not
// change while the form is presented.
func New(tmpl *model.Template, callbacks Callbacks, options ...Option) (*Form, error) {
	if tmpl == nil {
		return nil, ErrNilTemplate
	}
	cfg := config{labels: DefaultLabels()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	return &Form{
		template:  tmpl,
		callbacks: callbacks,
		cfg:       cfg,
	}, nil
}

// Template returns the template the form renders.
func (f *Form) Template() *model.Template {
	return f.template
}

func (f *Form) change(column, value string) {
	if f.callbacks.OnChange != nil {
		f.callbacks.OnChange(column, value)
	}
}

func (f *Form) submit() {
	if f.callbacks.OnSubmit != nil {
		f.callbacks.OnSubmit()
	}
}

func (f *Form) cancel() {
	if f.callbacks.OnCancel != nil {
		f.callbacks.OnCancel()
	}
}

func mergeLabels(base, override Labels) Labels {
	pick := func(current, next string) string {
		if strings.TrimSpace(next) != "" {
			return next
		}
		return current
	}
	return Labels{
		Title:             pick(base.Title, override.Title),
		Subtitle:          pick(base.Subtitle, override.Subtitle),
		TextPlaceholder:   pick(base.TextPlaceholder, override.TextPlaceholder),
		SelectPlaceholder: pick(base.SelectPlaceholder, override.SelectPlaceholder),
		UserPlaceholder:   pick(base.UserPlaceholder, override.UserPlaceholder),
		DatePlaceholder:   pick(base.DatePlaceholder, override.DatePlaceholder),
		Submit:            pick(base.Submit, override.Submit),
		Cancel:            pick(base.Cancel, override.Cancel),
	}
}

func expand(format, arg string) string {
	return strings.ReplaceAll(format, "%s", arg)
}
