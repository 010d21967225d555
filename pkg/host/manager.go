package host

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
)

// ErrSessionNotFound is returned for unknown session ids.
var ErrSessionNotFound = errors.New("host: session not found")

// Option configures a Manager.
type Option func(*Manager)

// WithSubmitHandler sets the handler receiving submitted records.
func WithSubmitHandler(handler SubmitHandler) Option {
	return func(m *Manager) {
		m.onSubmit = handler
	}
}

// WithCancelHook runs after a session's form is cancelled.
func WithCancelHook(hook func(*Session)) Option {
	return func(m *Manager) {
		m.onCancel = hook
	}
}

// WithLogger sets the logger. Sessions log with session_id and template
// fields attached.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock overrides the time source used for SubmittedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}

// WithIDGenerator overrides how session and submission ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		if newID != nil {
			m.newID = newID
		}
	}
}

// WithFormOptions passes options to every form the manager builds.
func WithFormOptions(options ...form.Option) Option {
	return func(m *Manager) {
		m.formOptions = append(m.formOptions, options...)
	}
}

// Manager keeps sessions by id. It is safe for concurrent use; each session
// serialises access to its own values.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	onSubmit    SubmitHandler
	onCancel    func(*Session)
	logger      logrus.FieldLogger
	now         func() time.Time
	newID       func() string
	formOptions []form.Option
}

// NewManager constructs a Manager. Without WithLogger it logs nowhere.
func NewManager(options ...Option) *Manager {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	m := &Manager{
		sessions: make(map[string]*Session),
		logger:   discard,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Create starts a hidden session for tmpl.
func (m *Manager) Create(tmpl model.Template) (*Session, error) {
	if err := tmpl.Validate(); err != nil {
		return nil, fmt.Errorf("host: create session: %w", err)
	}
	id := m.newID()
	session, err := newSession(id, tmpl, m)
	if err != nil {
		return nil, fmt.Errorf("host: create session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.sessions[id]; exists {
		return nil, fmt.Errorf("host: session id %q already in use", id)
	}
	m.sessions[id] = session
	m.logger.WithFields(logrus.Fields{"session_id": id, "template": tmpl.Name}).Info("session created")
	return session, nil
}

// Get returns the session with the given id.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	return session, nil
}

// Delete removes a session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %q", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	return nil
}

// IDs returns the ids of all live sessions, sorted.
func (m *Manager) IDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
