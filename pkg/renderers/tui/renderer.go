package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render"
)

// Renderer drives a form from the terminal. Run prompts for every column and
// routes each answer through the form's dispatch table; Render prints a
// plain-text summary of a presentation.
type Renderer struct {
	driver        PromptDriver
	pageSize      int
	renderOptions render.RenderOptions
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver: newSurveyDriver(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the format produced by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Run prompts for each column in template order, then asks whether to add
// the row. values is consulted before every prompt so the defaults reflect
// what the host stored after the previous answer. An interrupt cancels the
// form and returns ErrAborted.
func (r *Renderer) Run(ctx context.Context, f *form.Form, values func() model.FieldValues) (Outcome, error) {
	if ctx == nil {
		return "", errors.New("tui: context is required")
	}
	if f == nil {
		return "", ErrNilForm
	}
	if values == nil {
		values = func() model.FieldValues { return nil }
	}

	present := func() form.Presentation {
		p := f.Render(values(), true)
		render.Localize(&p, r.renderOptions)
		return p
	}

	p := present()
	if err := r.driver.Info(ctx, p.Title+"\n"+p.Subtitle); err != nil {
		return "", err
	}

	for idx := range p.Fields {
		field := present().Fields[idx]
		if err := r.promptField(ctx, f, field); err != nil {
			if errors.Is(err, ErrAborted) {
				return r.abort(f)
			}
			return "", err
		}
	}

	submit, err := r.driver.Confirm(ctx, ConfirmConfig{
		Message: actionLabel(p, form.ActionSubmit) + "?",
		Default: true,
	})
	if err != nil {
		if errors.Is(err, ErrAborted) {
			return r.abort(f)
		}
		return "", err
	}
	if !submit {
		if err := f.Dispatch(form.CancelPressed{}); err != nil {
			return "", fmt.Errorf("tui: dispatch cancel: %w", err)
		}
		return OutcomeCancelled, nil
	}
	if err := f.Dispatch(form.SubmitPressed{}); err != nil {
		return "", fmt.Errorf("tui: dispatch submit: %w", err)
	}
	return OutcomeSubmitted, nil
}

func (r *Renderer) abort(f *form.Form) (Outcome, error) {
	if err := f.Dispatch(form.CancelPressed{}); err != nil {
		return "", fmt.Errorf("tui: dispatch cancel: %w", err)
	}
	return OutcomeCancelled, ErrAborted
}

func (r *Renderer) promptField(ctx context.Context, f *form.Form, field form.FieldView) error {
	var event form.Event
	switch field.Kind {
	case model.ControlSelect, model.ControlUser:
		if len(field.Options) == 0 {
			return r.driver.Info(ctx, fmt.Sprintf("%s has no options, skipping", field.Name))
		}
		labels := make([]string, len(field.Options))
		selected := -1
		for i, option := range field.Options {
			labels[i] = option.Label
			if option.Selected {
				selected = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      promptLabel(field),
			Options:      labels,
			DefaultIndex: selected,
			Help:         field.Description,
			PageSize:     r.pageSize,
		})
		if err != nil {
			return err
		}
		if idx < 0 {
			return nil
		}
		event = form.OptionChosen{Column: field.Name, Index: idx}
	case model.ControlDate:
		answer, err := r.driver.Input(ctx, InputConfig{
			Message:   promptLabel(field),
			Default:   field.Value,
			Help:      dateHelp(field),
			Validator: validateDate,
		})
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			// Nothing entered and nothing stored.
			return nil
		}
		if answer == ClearDateToken {
			event = form.DateCleared{Column: field.Name}
			break
		}
		day, err := time.Parse(form.DateLayout, answer)
		if err != nil {
			return fmt.Errorf("tui: parse date for %q: %w", field.Name, err)
		}
		event = form.DatePicked{Column: field.Name, Date: day}
	default:
		text, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptLabel(field),
			Default: field.Value,
			Help:    field.Description,
		})
		if err != nil {
			return err
		}
		event = form.TextInput{Column: field.Name, Text: text}
	}

	if err := f.Dispatch(event); err != nil {
		return fmt.Errorf("tui: dispatch %q: %w", field.Name, err)
	}
	return nil
}

func validateDate(answer string) error {
	answer = strings.TrimSpace(answer)
	if answer == "" || answer == ClearDateToken {
		return nil
	}
	if _, err := time.Parse(form.DateLayout, answer); err != nil {
		return fmt.Errorf("use YYYY-MM-DD or %q to clear", ClearDateToken)
	}
	return nil
}

func dateHelp(field form.FieldView) string {
	help := fmt.Sprintf("YYYY-MM-DD, %q clears", ClearDateToken)
	if field.Description != "" {
		return field.Description + " (" + help + ")"
	}
	return help
}

func promptLabel(field form.FieldView) string {
	if field.Required {
		return field.Name + " *"
	}
	return field.Name
}

func actionLabel(p form.Presentation, id form.ActionID) string {
	for _, action := range p.Actions {
		if action.ID == id {
			return action.Label
		}
	}
	return string(id)
}

// Render writes a plain-text summary of the presentation. A presentation that
// is not visible renders as nothing.
func (r *Renderer) Render(ctx context.Context, presentation form.Presentation, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !presentation.Visible {
		return nil, nil
	}

	presentation.Fields = append([]form.FieldView(nil), presentation.Fields...)
	presentation.Actions = append([]form.Action(nil), presentation.Actions...)
	render.Localize(&presentation, opts)

	var b strings.Builder
	b.WriteString(presentation.Title)
	b.WriteByte('\n')
	b.WriteString(presentation.Subtitle)
	b.WriteString("\n\n")
	for _, field := range presentation.Fields {
		fmt.Fprintf(&b, "  [%s] %s: ", field.Kind, promptLabel(field))
		if field.Empty {
			fmt.Fprintf(&b, "(%s)", field.Placeholder)
		} else {
			b.WriteString(field.Display)
		}
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	for i, action := range presentation.Actions {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "[%s]", action.Label)
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}
