package model

import (
	"errors"
	"fmt"
	"strings"
)

// DataType is the declared type of a template column. The set is open on the
// wire: unrecognised values are preserved and rendered as text.
type DataType string

const (
	DataTypeText   DataType = "text"
	DataTypeDate   DataType = "date"
	DataTypeSelect DataType = "select"
	DataTypeUser   DataType = "user"
)

// ControlKind identifies the concrete control rendered for a column.
type ControlKind string

const (
	ControlText   ControlKind = "text"
	ControlSelect ControlKind = "select"
	ControlUser   ControlKind = "user"
	ControlDate   ControlKind = "date"
)

// ControlKinds lists every control kind in a stable order.
func ControlKinds() []ControlKind {
	return []ControlKind{ControlText, ControlSelect, ControlUser, ControlDate}
}

// ControlKindFor maps a declared data type onto the control that renders it.
// Unknown data types fall back to the text control.
func ControlKindFor(dataType DataType) ControlKind {
	switch DataType(strings.TrimSpace(string(dataType))) {
	case DataTypeText:
		return ControlText
	case DataTypeSelect:
		return ControlSelect
	case DataTypeUser:
		return ControlUser
	case DataTypeDate:
		return ControlDate
	default:
		return ControlText
	}
}

// IsMenu reports whether the control picks from a column's options.
func (k ControlKind) IsMenu() bool {
	return k == ControlSelect || k == ControlUser
}

// Option is one entry of a select or user column.
type Option struct {
	Value  string `json:"value" yaml:"value"`
	UserID string `json:"user_id,omitempty" yaml:"user_id,omitempty"`
}

// Label is the text shown for the option.
func (o Option) Label() string {
	return o.Value
}

// EffectiveValue is the value stored when the option is chosen. User menus
// store the user id when one is present; every other control stores Value.
func (o Option) EffectiveValue(kind ControlKind) string {
	if kind == ControlUser && o.UserID != "" {
		return o.UserID
	}
	return o.Value
}

// Column describes a single form field.
type Column struct {
	Name        string   `json:"name" yaml:"name"`
	DataType    DataType `json:"data_type" yaml:"data_type"`
	Required    bool     `json:"required,omitempty" yaml:"required,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Options     []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Kind resolves the column's control kind.
func (c Column) Kind() ControlKind {
	return ControlKindFor(c.DataType)
}

// OptionIndex returns the index of the option whose effective value equals
// value, or -1 when none matches. Empty values never match.
func (c Column) OptionIndex(value string) int {
	if value == "" {
		return -1
	}
	kind := c.Kind()
	for idx, option := range c.Options {
		if option.EffectiveValue(kind) == value {
			return idx
		}
	}
	return -1
}

// Template is a named, ordered collection of columns.
type Template struct {
	Name    string   `json:"name" yaml:"name"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// Column looks up a column by name.
func (t Template) Column(name string) (Column, bool) {
	for _, column := range t.Columns {
		if column.Name == name {
			return column, true
		}
	}
	return Column{}, false
}

// ColumnNames returns the column names in template order.
func (t Template) ColumnNames() []string {
	names := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		names = append(names, column.Name)
	}
	return names
}

var (
	ErrTemplateName    = errors.New("model: template name is required")
	ErrColumnName      = errors.New("model: column name is required")
	ErrDuplicateColumn = errors.New("model: duplicate column name")
)

// Validate checks the structural rules loaders enforce before a template is
// handed to a host. Renderers never call it: malformed option data degrades
// to empty controls instead.
func (t Template) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return ErrTemplateName
	}
	seen := make(map[string]struct{}, len(t.Columns))
	for idx, column := range t.Columns {
		if strings.TrimSpace(column.Name) == "" {
			return fmt.Errorf("%w (column %d of %q)", ErrColumnName, idx, t.Name)
		}
		if _, exists := seen[column.Name]; exists {
			return fmt.Errorf("%w %q in template %q", ErrDuplicateColumn, column.Name, t.Name)
		}
		seen[column.Name] = struct{}{}
	}
	return nil
}

// FieldValues maps column names to the raw string each control produced.
// Missing keys are unset.
type FieldValues map[string]string

// Get returns the stored value for name, or "" when unset.
func (v FieldValues) Get(name string) string {
	if v == nil {
		return ""
	}
	return v[name]
}

// Clone returns an independent copy of the map.
func (v FieldValues) Clone() FieldValues {
	out := make(FieldValues, len(v))
	for key, value := range v {
		out[key] = value
	}
	return out
}
