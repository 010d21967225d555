package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C). The form has
	// already been cancelled when Run returns it.
	ErrAborted = errors.New("tui: aborted")
	// ErrNilForm is returned when Run is called without a form.
	ErrNilForm = errors.New("tui: form is required")
)
