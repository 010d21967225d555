package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render/template"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla/components"
)

type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	icons     map[model.ControlKind]string
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, icons map[model.ControlKind]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{
		templates: templates,
		registry:  registry,
		icons:     icons,
	}
}

func (r *componentRenderer) render(field form.FieldView) (string, error) {
	componentName := string(field.Kind)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		componentName = components.NameText
		descriptor, ok = r.registry.Descriptor(componentName)
	}
	if !ok {
		return "", fmt.Errorf("component %q not registered for column %q", field.Kind, field.Name)
	}

	icon := r.icons[field.Kind]
	data := components.ComponentData{
		Template:  r.templates,
		ControlID: componentControlID(field.Index),
		Icon:      icon,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for column %q: %w", componentName, field.Name, err)
	}

	return buildFieldMarkup(field, componentName, icon, control.String()), nil
}

func buildFieldMarkup(field form.FieldView, componentName, icon, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + len(icon) + 256)

	builder.WriteString(`      <div class="`)
	builder.WriteString(string(ClassField))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`" data-column="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString("\">\n")

	builder.WriteString(`        <label id="`)
	builder.WriteString(componentLabelID(field.Index))
	builder.WriteString(`" for="`)
	builder.WriteString(componentControlID(field.Index))
	builder.WriteString(`">`)
	if icon != "" {
		builder.WriteString(`<span class="`)
		builder.WriteString(string(ClassIcon))
		builder.WriteString(`">`)
		builder.WriteString(icon)
		builder.WriteString(`</span>`)
	}
	builder.WriteString(html.EscapeString(field.Name))
	if field.Required {
		builder.WriteString(`<span class="`)
		builder.WriteString(string(ClassRequired))
		builder.WriteString(`">*</span>`)
	}
	builder.WriteString("</label>\n")

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		builder.WriteString("        ")
		builder.WriteString(line)
		builder.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		builder.WriteString(`        <small class="`)
		builder.WriteString(string(ClassDescription))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(desc))
		builder.WriteString("</small>\n")
	}

	builder.WriteString("      </div>\n")
	return builder.String()
}
