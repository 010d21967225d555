package server

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
)

var errInvalidDate = errors.New("server: date must be YYYY-MM-DD")

// changeEvent maps a raw value posted by a browser control onto the event
// its column understands. Unknown columns return form.ErrUnknownColumn.
func changeEvent(tmpl model.Template, column, value string) (form.Event, error) {
	col, ok := tmpl.Column(column)
	if !ok {
		return nil, fmt.Errorf("%w %q", form.ErrUnknownColumn, column)
	}
	switch kind := col.Kind(); {
	case kind.IsMenu():
		return form.OptionValueChosen{Column: column, Value: value}, nil
	case kind == model.ControlDate:
		if value == "" {
			return form.DateCleared{Column: column}, nil
		}
		day, ok := form.ParseDate(value)
		if !ok {
			return nil, fmt.Errorf("%w: %q for %q", errInvalidDate, value, column)
		}
		return form.DatePicked{Column: column, Date: day}, nil
	default:
		return form.TextInput{Column: column, Text: value}, nil
	}
}

// postedEvents turns a submitted HTML form into change events, in template
// column order. Inputs that are not columns (hidden fields, the action
// button) are skipped, and so are menu values the column does not offer.
func postedEvents(tmpl model.Template, posted url.Values) []form.Event {
	events := make([]form.Event, 0, len(tmpl.Columns))
	for _, column := range tmpl.Columns {
		raw, ok := posted[column.Name]
		if !ok || len(raw) == 0 {
			continue
		}
		value := raw[len(raw)-1]
		if column.Kind().IsMenu() && column.OptionIndex(value) < 0 {
			continue
		}
		event, err := changeEvent(tmpl, column.Name, value)
		if err != nil {
			continue
		}
		events = append(events, event)
	}
	return events
}
