package form

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-rowform/pkg/model"
)

var (
	// ErrUnknownColumn is returned for events naming a column the template
	// does not declare.
	ErrUnknownColumn = errors.New("form: unknown column")
	// ErrKindMismatch is returned when an event does not fit the column's
	// control (for example a date pick on a text column).
	ErrKindMismatch = errors.New("form: event does not match column control")
	// ErrOptionOutOfRange is returned when an option index is not valid.
	ErrOptionOutOfRange = errors.New("form: option index out of range")
	// ErrOptionNotFound is returned when a raw menu value matches no option.
	ErrOptionNotFound = errors.New("form: value is not a column option")
	// ErrUnsupportedEvent is returned for event types Dispatch does not know.
	ErrUnsupportedEvent = errors.New("form: unsupported event")
)

// Event is a single user interaction.
type Event interface {
	isEvent()
}

// TextInput carries the full text of a text control after a keystroke.
type TextInput struct {
	Column string
	Text   string
}

// OptionChosen selects a menu entry by position.
type OptionChosen struct {
	Column string
	Index  int
}

// OptionValueChosen selects a menu entry by its effective value, as posted by
// an HTML select element.
type OptionValueChosen struct {
	Column string
	Value  string
}

// DatePicked picks a calendar day.
type DatePicked struct {
	Column string
	Date   time.Time
}

// DateCleared removes a date.
type DateCleared struct {
	Column string
}

// SubmitPressed commits the form.
type SubmitPressed struct{}

// CancelPressed dismisses the form.
type CancelPressed struct{}

func (TextInput) isEvent()         {}
func (OptionChosen) isEvent()      {}
func (OptionValueChosen) isEvent() {}
func (DatePicked) isEvent()        {}
func (DateCleared) isEvent()       {}
func (SubmitPressed) isEvent()     {}
func (CancelPressed) isEvent()     {}

// Dispatch processes one event, invoking exactly one callback on success.
// Errors report host mistakes (unknown columns, mismatched events, values not
// offered by a menu); no callback runs when an error is returned.
func (f *Form) Dispatch(event Event) error {
	switch ev := event.(type) {
	case TextInput:
		if _, err := f.columnOf(ev.Column, model.ControlText); err != nil {
			return err
		}
		f.change(ev.Column, ev.Text)
	case OptionChosen:
		column, err := f.menuColumn(ev.Column)
		if err != nil {
			return err
		}
		if ev.Index < 0 || ev.Index >= len(column.Options) {
			return fmt.Errorf("%w: %d for %q", ErrOptionOutOfRange, ev.Index, ev.Column)
		}
		f.change(ev.Column, column.Options[ev.Index].EffectiveValue(column.Kind()))
	case OptionValueChosen:
		column, err := f.menuColumn(ev.Column)
		if err != nil {
			return err
		}
		idx := column.OptionIndex(ev.Value)
		if idx < 0 {
			return fmt.Errorf("%w: %q for %q", ErrOptionNotFound, ev.Value, ev.Column)
		}
		f.change(ev.Column, column.Options[idx].EffectiveValue(column.Kind()))
	case DatePicked:
		if _, err := f.columnOf(ev.Column, model.ControlDate); err != nil {
			return err
		}
		f.change(ev.Column, FormatDate(ev.Date))
	case DateCleared:
		if _, err := f.columnOf(ev.Column, model.ControlDate); err != nil {
			return err
		}
		f.change(ev.Column, "")
	case SubmitPressed:
		f.submit()
	case CancelPressed:
		f.cancel()
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedEvent, event)
	}
	return nil
}

func (f *Form) columnOf(name string, kind model.ControlKind) (model.Column, error) {
	column, ok := f.template.Column(name)
	if !ok {
		return model.Column{}, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	if column.Kind() != kind {
		return model.Column{}, fmt.Errorf("%w: %q is %s, not %s", ErrKindMismatch, name, column.Kind(), kind)
	}
	return column, nil
}

func (f *Form) menuColumn(name string) (model.Column, error) {
	column, ok := f.template.Column(name)
	if !ok {
		return model.Column{}, fmt.Errorf("%w %q", ErrUnknownColumn, name)
	}
	if !column.Kind().IsMenu() {
		return model.Column{}, fmt.Errorf("%w: %q is %s, not a menu", ErrKindMismatch, name, column.Kind())
	}
	return column, nil
}
