package host

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
)

// ErrFormClosed is returned by Dispatch while the form is hidden.
var ErrFormClosed = errors.New("host: form is closed")

// Submission is the record handed to a SubmitHandler.
type Submission struct {
	ID          string            `json:"id"`
	SessionID   string            `json:"session_id"`
	Template    string            `json:"template"`
	Values      model.FieldValues `json:"values"`
	SubmittedAt time.Time         `json:"submitted_at"`
}

// SubmitHandler receives submitted records. It runs outside the session lock
// but inside Dispatch, so it must not dispatch to the same session.
type SubmitHandler func(Submission)

// Session owns the values of one form.
type Session struct {
	ID string

	// dispatchMu serialises events so a submit or cancel observes the
	// visibility left by the one before it.
	dispatchMu sync.Mutex

	mu       sync.RWMutex
	template model.Template
	values   model.FieldValues
	visible  bool
	form     *form.Form

	onSubmit SubmitHandler
	onCancel func(*Session)
	logger   logrus.FieldLogger
	now      func() time.Time
	newID    func() string
}

func newSession(id string, tmpl model.Template, m *Manager) (*Session, error) {
	s := &Session{
		ID:       id,
		template: tmpl,
		values:   model.FieldValues{},
		onSubmit: m.onSubmit,
		onCancel: m.onCancel,
		now:      m.now,
		newID:    m.newID,
		logger: m.logger.WithFields(logrus.Fields{
			"session_id": id,
			"template":   tmpl.Name,
		}),
	}
	f, err := form.New(&s.template, form.Callbacks{
		OnChange: s.change,
		OnSubmit: s.submit,
		OnCancel: s.cancel,
	}, m.formOptions...)
	if err != nil {
		return nil, err
	}
	s.form = f
	return s, nil
}

// Template returns the session's template.
func (s *Session) Template() model.Template {
	return s.template
}

// Form returns the form bound to this session's values.
func (s *Session) Form() *form.Form {
	return s.form
}

// Open shows the form.
func (s *Session) Open() {
	s.mu.Lock()
	s.visible = true
	s.mu.Unlock()
}

// Close hides the form without touching the values and without running the
// cancel hook.
func (s *Session) Close() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()
}

// Visible reports whether the form is shown.
func (s *Session) Visible() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visible
}

// Values returns a copy of the current values.
func (s *Session) Values() model.FieldValues {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values.Clone()
}

// Presentation renders the form for the current values and visibility.
func (s *Session) Presentation() form.Presentation {
	s.mu.RLock()
	values := s.values.Clone()
	visible := s.visible
	s.mu.RUnlock()
	return s.form.Render(values, visible)
}

// Dispatch routes one event through the form. Events for a hidden form are
// rejected with ErrFormClosed and never reach the callbacks.
func (s *Session) Dispatch(event form.Event) error {
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	if !s.Visible() {
		s.logger.WithField("event", fmt.Sprintf("%T", event)).Debug("event for closed form dropped")
		return ErrFormClosed
	}
	return s.form.Dispatch(event)
}

func (s *Session) change(column, value string) {
	s.mu.Lock()
	s.values[column] = value
	s.mu.Unlock()
	s.logger.WithField("column", column).Debug("field changed")
}

func (s *Session) submit() {
	s.mu.Lock()
	submission := Submission{
		ID:          s.newID(),
		SessionID:   s.ID,
		Template:    s.template.Name,
		Values:      s.values,
		SubmittedAt: s.now(),
	}
	s.values = model.FieldValues{}
	s.visible = false
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"submission_id": submission.ID,
		"fields":        len(submission.Values),
	}).Info("row submitted")
	if s.onSubmit != nil {
		s.onSubmit(submission)
	}
}

func (s *Session) cancel() {
	s.mu.Lock()
	s.visible = false
	s.mu.Unlock()

	s.logger.Info("row form cancelled")
	if s.onCancel != nil {
		s.onCancel(s)
	}
}
