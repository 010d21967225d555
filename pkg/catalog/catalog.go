package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-rowform/pkg/model"
)

var (
	// ErrTemplateNotFound is returned by Store.Lookup for unknown names.
	ErrTemplateNotFound = errors.New("catalog: template not found")
	// ErrDuplicateTemplate reports two templates sharing a name.
	ErrDuplicateTemplate = errors.New("catalog: duplicate template")
)

// LoadOption configures LoadFS and NewStore.
type LoadOption func(*loadConfig)

type loadConfig struct {
	cue bool
}

// WithCUEValidation checks every template against the embedded CUE schema in
// addition to the structural checks.
func WithCUEValidation() LoadOption {
	return func(cfg *loadConfig) {
		cfg.cue = true
	}
}

// Store holds templates by name. It is safe for concurrent use.
type Store struct {
	mu        sync.RWMutex
	templates map[string]model.Template
	sources   map[string]string
	cfg       loadConfig
}

// NewStore returns an empty store.
func NewStore(options ...LoadOption) *Store {
	store := &Store{
		templates: make(map[string]model.Template),
		sources:   make(map[string]string),
	}
	for _, opt := range options {
		if opt != nil {
			opt(&store.cfg)
		}
	}
	return store
}

// LoadFS walks the provided filesystem and parses JSON/YAML template files.
// When fsys is nil or no template files are present, the returned store is
// empty.
func LoadFS(fsys fs.FS, options ...LoadOption) (*Store, error) {
	store := NewStore(options...)
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("catalog: read %s: %w", path, err)
		}

		templates, err := parseDocument(data, path)
		if err != nil {
			return err
		}
		for _, tmpl := range templates {
			if err := store.add(tmpl, path); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Add validates tmpl and stores it. Names must be unique within the store.
func (s *Store) Add(tmpl model.Template) error {
	return s.add(tmpl, "")
}

func (s *Store) add(tmpl model.Template, source string) error {
	tmpl.Name = strings.TrimSpace(tmpl.Name)
	where := ""
	if source != "" {
		where = " (file " + source + ")"
	}

	if err := tmpl.Validate(); err != nil {
		return fmt.Errorf("catalog: template %q%s: %w", tmpl.Name, where, err)
	}
	if s.cfg.cue {
		v, err := templateValidator()
		if err != nil {
			return err
		}
		if err := v.validate(tmpl); err != nil {
			return fmt.Errorf("catalog: template %q%s: schema: %w", tmpl.Name, where, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if previous, exists := s.sources[tmpl.Name]; exists {
		if previous != "" {
			where += " already defined in " + previous
		}
		return fmt.Errorf("%w %q%s", ErrDuplicateTemplate, tmpl.Name, where)
	}
	s.templates[tmpl.Name] = cloneTemplate(tmpl)
	s.sources[tmpl.Name] = source
	return nil
}

// Template returns a copy of the named template.
func (s *Store) Template(name string) (model.Template, bool) {
	if s == nil {
		return model.Template{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	tmpl, ok := s.templates[strings.TrimSpace(name)]
	if !ok {
		return model.Template{}, false
	}
	return cloneTemplate(tmpl), true
}

// Lookup is Template with an error for a missing name.
func (s *Store) Lookup(name string) (model.Template, error) {
	tmpl, ok := s.Template(name)
	if !ok {
		return model.Template{}, fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	return tmpl, nil
}

// Names returns the template names in sorted order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.templates))
	for name := range s.templates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len reports how many templates the store holds.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.templates)
}

type documentFile struct {
	model.Template `yaml:",inline"`
	Templates      []model.Template `json:"templates" yaml:"templates"`
}

func parseDocument(data []byte, source string) ([]model.Template, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("catalog: file %s is empty", source)
	}

	var doc documentFile
	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
	default:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("catalog: parse %s: %w", source, err)
		}
	}

	if len(doc.Templates) > 0 {
		if doc.Name != "" || len(doc.Columns) > 0 {
			return nil, fmt.Errorf("catalog: file %s mixes a template with a templates list", source)
		}
		return doc.Templates, nil
	}
	if strings.TrimSpace(doc.Name) == "" && len(doc.Columns) == 0 {
		return nil, fmt.Errorf("catalog: file %s defines no templates", source)
	}
	return []model.Template{doc.Template}, nil
}

func cloneTemplate(tmpl model.Template) model.Template {
	out := model.Template{
		Name:    tmpl.Name,
		Columns: make([]model.Column, len(tmpl.Columns)),
	}
	for idx, column := range tmpl.Columns {
		column.Options = slices.Clone(column.Options)
		out.Columns[idx] = column
	}
	return out
}

func isTemplateFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
