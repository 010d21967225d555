package form

import (
	"github.com/goliatone/go-rowform/pkg/model"
)

// ActionID names a footer button.
type ActionID string

const (
	ActionCancel ActionID = "cancel"
	ActionSubmit ActionID = "submit"
)

// Action is a footer button.
type Action struct {
	ID      ActionID `json:"id"`
	Label   string   `json:"label"`
	Primary bool     `json:"primary,omitempty"`
}

// OptionView is one menu entry as presented.
type OptionView struct {
	Label    string `json:"label"`
	Value    string `json:"value"`
	Selected bool   `json:"selected,omitempty"`
}

// FieldView is the presentation of a single column.
type FieldView struct {
	Index       int               `json:"index"`
	Name        string            `json:"name"`
	DataType    model.DataType    `json:"data_type"`
	Kind        model.ControlKind `json:"kind"`
	Required    bool              `json:"required,omitempty"`
	Description string            `json:"description,omitempty"`
	// Value is the control's current value: the raw text for text controls,
	// the matching option value for menus and the ISO date for date pickers.
	// It is empty whenever the stored value cannot be shown.
	Value string `json:"value"`
	// Display is what the control shows: the text, the chosen option label or
	// the formatted date.
	Display     string       `json:"display,omitempty"`
	Placeholder string       `json:"placeholder"`
	Empty       bool         `json:"empty"`
	Options     []OptionView `json:"options,omitempty"`
}

// Presentation is the complete view of the form for one set of inputs.
type Presentation struct {
	Visible      bool        `json:"visible"`
	TemplateName string      `json:"template_name"`
	Title        string      `json:"title"`
	Subtitle     string      `json:"subtitle"`
	Fields       []FieldView `json:"fields"`
	Actions      []Action    `json:"actions"`
}

// Render builds the presentation for the current values. It is a pure
// function of the template, values and visibility: values is only read.
func (f *Form) Render(values model.FieldValues, visible bool) Presentation {
	labels := f.cfg.labels
	p := Presentation{
		Visible:      visible,
		TemplateName: f.template.Name,
		Title:        labels.Title,
		Subtitle:     expand(labels.Subtitle, f.template.Name),
		Fields:       make([]FieldView, 0, len(f.template.Columns)),
		Actions: []Action{
			{ID: ActionCancel, Label: labels.Cancel},
			{ID: ActionSubmit, Label: labels.Submit, Primary: true},
		},
	}
	for idx, column := range f.template.Columns {
		p.Fields = append(p.Fields, f.fieldView(idx, column, values.Get(column.Name)))
	}
	return p
}

func (f *Form) fieldView(idx int, column model.Column, stored string) FieldView {
	kind := column.Kind()
	view := FieldView{
		Index:       idx,
		Name:        column.Name,
		DataType:    column.DataType,
		Kind:        kind,
		Required:    column.Required,
		Description: column.Description,
		Placeholder: f.placeholder(kind, column.Name),
	}

	switch kind {
	case model.ControlSelect, model.ControlUser:
		selected := column.OptionIndex(stored)
		view.Options = make([]OptionView, 0, len(column.Options))
		for optIdx, option := range column.Options {
			view.Options = append(view.Options, OptionView{
				Label:    option.Label(),
				Value:    option.EffectiveValue(kind),
				Selected: optIdx == selected,
			})
		}
		if selected >= 0 {
			view.Value = column.Options[selected].EffectiveValue(kind)
			view.Display = column.Options[selected].Label()
		}
	case model.ControlDate:
		if day, ok := ParseDate(stored); ok {
			view.Value = FormatDate(day)
			view.Display = DisplayDate(day, f.cfg.dateLayout)
		}
	default:
		view.Value = stored
		view.Display = stored
	}

	view.Empty = view.Value == ""
	return view
}

func (f *Form) placeholder(kind model.ControlKind, name string) string {
	labels := f.cfg.labels
	switch kind {
	case model.ControlSelect:
		return expand(labels.SelectPlaceholder, name)
	case model.ControlUser:
		return expand(labels.UserPlaceholder, name)
	case model.ControlDate:
		return expand(labels.DatePlaceholder, name)
	default:
		return expand(labels.TextPlaceholder, name)
	}
}

// Field returns the view for the named column.
func (p Presentation) Field(name string) (FieldView, bool) {
	for _, field := range p.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return FieldView{}, false
}
