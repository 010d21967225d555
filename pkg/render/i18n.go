package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
)

// Translation keys looked up by Localize. Placeholder and subtitle keys
// receive the column or template name as their first argument.
const (
	KeyTitle         = "rowform.title"
	KeySubtitle      = "rowform.subtitle"
	KeyActionSubmit  = "rowform.action.submit"
	KeyActionCancel  = "rowform.action.cancel"
	keyPlaceholderFn = "rowform.placeholder."
)

// ErrMissingTranslator is passed to MissingTranslationHandler when no
// translator is configured.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves a message for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler decides the string used when a key cannot be
// translated. fallback is the untranslated caption.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// PlaceholderKey returns the translation key for a control kind's
// placeholder.
func PlaceholderKey(kind model.ControlKind) string {
	return keyPlaceholderFn + string(kind)
}

// Localize translates the chrome strings of p in place. It is best-effort:
// with no translator, or when a key is missing, the existing caption stays.
func Localize(p *form.Presentation, opts RenderOptions) {
	if p == nil || opts.Translator == nil {
		return
	}
	tr := func(key, fallback string, args ...any) string {
		return translate(opts, key, fallback, args...)
	}

	p.Title = tr(KeyTitle, p.Title)
	p.Subtitle = tr(KeySubtitle, p.Subtitle, p.TemplateName)
	for i := range p.Actions {
		switch p.Actions[i].ID {
		case form.ActionSubmit:
			p.Actions[i].Label = tr(KeyActionSubmit, p.Actions[i].Label)
		case form.ActionCancel:
			p.Actions[i].Label = tr(KeyActionCancel, p.Actions[i].Label)
		}
	}
	for i := range p.Fields {
		field := &p.Fields[i]
		field.Placeholder = tr(PlaceholderKey(field.Kind), field.Placeholder, field.Name)
	}
}

func translate(opts RenderOptions, key, fallback string, args ...any) string {
	result, err := opts.Translator.Translate(opts.Locale, key, args...)
	if err == nil && strings.TrimSpace(result) != "" {
		return result
	}
	if opts.OnMissing != nil {
		return opts.OnMissing(opts.Locale, key, fallback, err)
	}
	return fallback
}
