package tui

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/testsupport"
)

func TestSelectPrompt_DefaultsByPosition(t *testing.T) {
	prompt := selectPrompt(SelectConfig{
		Message:      "Assigned To",
		Options:      []string{"Sam Lee", "Sam Lee", "Ada"},
		DefaultIndex: 1,
		PageSize:     5,
	})
	if got, ok := prompt.Default.(int); !ok || got != 1 {
		t.Fatalf("default = %#v, want index 1", prompt.Default)
	}
	if prompt.PageSize != 5 {
		t.Fatalf("page size = %d", prompt.PageSize)
	}

	for _, idx := range []int{-1, 3} {
		if prompt := selectPrompt(SelectConfig{Options: []string{"a", "b", "c"}, DefaultIndex: idx}); prompt.Default != nil {
			t.Fatalf("index %d should leave no default, got %#v", idx, prompt.Default)
		}
	}
}

func TestSurveyDriver_HonoursCancelledContext(t *testing.T) {
	d := &surveyDriver{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := d.Select(ctx, SelectConfig{Options: []string{"a"}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("select: expected context.Canceled, got %v", err)
	}
	if _, err := d.Input(ctx, InputConfig{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("input: expected context.Canceled, got %v", err)
	}
	if idx, err := d.Select(ctx, SelectConfig{}); err != nil || idx != -1 {
		t.Fatalf("empty select should answer -1 without prompting, got %d, %v", idx, err)
	}
}

func TestRun_DuplicateLabelsKeepPosition(t *testing.T) {
	tmpl := model.Template{
		Name: "Owners",
		Columns: []model.Column{{
			Name:     "Owner",
			DataType: model.DataTypeUser,
			Options: []model.Option{
				{Value: "Sam Lee", UserID: "user_1"},
				{Value: "Sam Lee", UserID: "user_9"},
			},
		}},
	}
	var rec testsupport.Recorder
	values := model.FieldValues{"Owner": "user_9"}
	f, err := form.New(&tmpl, form.Callbacks{
		OnChange: func(column, value string) {
			rec.OnChange(column, value)
			values[column] = value
		},
		OnSubmit: rec.OnSubmit,
	})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}

	driver := &stubDriver{selectIdx: []int{1}, confirm: []bool{true}}
	r, _ := New(WithPromptDriver(driver))
	if _, err := r.Run(context.Background(), f, func() model.FieldValues { return values }); err != nil {
		t.Fatalf("run: %v", err)
	}

	if got := driver.selectConfigs[0].DefaultIndex; got != 1 {
		t.Fatalf("default index = %d, want 1", got)
	}
	want := []testsupport.Change{{Column: "Owner", Value: "user_9"}}
	if diff := cmp.Diff(want, rec.Changes); diff != "" {
		t.Fatalf("changes mismatch (-want +got):\n%s", diff)
	}
}
