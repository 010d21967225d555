package testsupport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rowform/pkg/model"
)

// SampleTemplate returns the Customer Contacts template used across tests.
func SampleTemplate() model.Template {
	return model.Template{
		Name: "Customer Contacts",
		Columns: []model.Column{
			{
				Name:        "Full Name",
				DataType:    model.DataTypeText,
				Required:    true,
				Description: "Enter the customer's full name",
			},
			{
				Name:        "Email",
				DataType:    model.DataTypeText,
				Required:    true,
				Description: "Primary email address for contact",
			},
			{
				Name:     "Status",
				DataType: model.DataTypeSelect,
				Required: true,
				Options: []model.Option{
					{Value: "New Lead"},
					{Value: "Contacted"},
					{Value: "Qualified"},
					{Value: "Proposal"},
					{Value: "Closed Won"},
					{Value: "Closed Lost"},
				},
			},
			{
				Name:        "Contact Date",
				DataType:    model.DataTypeDate,
				Description: "Date of first contact with the customer",
			},
			{
				Name:     "Assigned To",
				DataType: model.DataTypeUser,
				Options: []model.Option{
					{Value: "John Smith", UserID: "user_1"},
					{Value: "Sarah Johnson", UserID: "user_2"},
					{Value: "Mike Thompson", UserID: "user_3"},
				},
			},
			{
				Name:        "Notes",
				DataType:    model.DataTypeText,
				Description: "Additional information about the contact",
			},
		},
	}
}

// LoadTemplate reads a JSON template fixture.
func LoadTemplate(path string) (model.Template, error) {
	if path == "" {
		return model.Template{}, errors.New("testsupport: template path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Template{}, fmt.Errorf("testsupport: read template: %w", err)
	}
	var out model.Template
	if err := json.Unmarshal(data, &out); err != nil {
		return model.Template{}, fmt.Errorf("testsupport: unmarshal template: %w", err)
	}
	return out, nil
}

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}

// Recorder captures form callbacks so tests can assert on the exact sequence
// a form produced.
type Recorder struct {
	Changes []Change
	Submits int
	Cancels int
}

// Change is one recorded OnChange invocation.
type Change struct {
	Column string
	Value  string
}

// OnChange records a change.
func (r *Recorder) OnChange(column, value string) {
	r.Changes = append(r.Changes, Change{Column: column, Value: value})
}

// OnSubmit records a submit.
func (r *Recorder) OnSubmit() {
	r.Submits++
}

// OnCancel records a cancel.
func (r *Recorder) OnCancel() {
	r.Cancels++
}

// Last returns the most recent change.
func (r *Recorder) Last() (Change, bool) {
	if len(r.Changes) == 0 {
		return Change{}, false
	}
	return r.Changes[len(r.Changes)-1], true
}
