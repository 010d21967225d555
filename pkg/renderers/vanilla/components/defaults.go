package components

import (
	"bytes"
	"fmt"

	"github.com/goliatone/go-rowform/pkg/form"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry pre-populated with one component per
// control kind.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameText, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "text.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "select.tmpl"),
	})
	registry.MustRegister(NameUser, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "user.tmpl"),
	})
	registry.MustRegister(NameDate, Descriptor{
		Renderer: templateComponentRenderer(templatePrefix + "date.tmpl"),
	})

	return registry
}

func templateComponentRenderer(templateName string) Renderer {
	return func(buf *bytes.Buffer, field form.FieldView, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		payload := map[string]any{
			"field":      field,
			"control_id": data.ControlID,
			"icon":       data.Icon,
		}
		rendered, err := data.Template.RenderTemplate(templateName, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
