package vanilla_test

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-rowform/pkg/testsupport"
)

func samplePresentation(t *testing.T, values model.FieldValues, visible bool) form.Presentation {
	t.Helper()
	tmpl := testsupport.SampleTemplate()
	f, err := form.New(&tmpl, form.Callbacks{})
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f.Render(values, visible)
}

func renderSample(t *testing.T, r *vanilla.Renderer, p form.Presentation, opts render.RenderOptions) string {
	t.Helper()
	out, err := r.Render(testsupport.Context(), p, opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func TestRenderer_RendersOneControlPerColumn(t *testing.T) {
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	values := model.FieldValues{
		"Full Name":    "Ada <Lovelace>",
		"Status":       "Qualified",
		"Contact Date": "2024-03-15",
		"Assigned To":  "user_2",
	}
	output := renderSample(t, r, samplePresentation(t, values, true), render.RenderOptions{
		Action: "/sessions/abc/submit",
		Hidden: render.MergeHiddenFields(nil, render.SessionField("abc")),
	})

	mustContain := []string{
		`<h2 id="rowform-title">Add New Row</h2>`,
		`<p>To Customer Contacts Template</p>`,
		`data-template="Customer Contacts"`,
		`action="/sessions/abc/submit"`,
		`<input type="hidden" name="_session" value="abc">`,
		`data-component="text" data-column="Full Name"`,
		`data-component="select" data-column="Status"`,
		`data-component="date" data-column="Contact Date"`,
		`data-component="user" data-column="Assigned To"`,
		`placeholder="Enter Email"`,
		`>Ada &lt;Lovelace&gt;</textarea>`,
		`<option value="Qualified" selected>Qualified</option>`,
		`<option value="user_2" selected>Sarah Johnson</option>`,
		`value="2024-03-15"`,
		`March 15th, 2024`,
		`<span class="rowform-required">*</span>`,
		`<small class="rowform-description">Date of first contact with the customer</small>`,
		`>Cancel</button>`,
		`>Add Row</button>`,
	}
	for _, want := range mustContain {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}

	if strings.Contains(output, " hidden>") {
		t.Errorf("visible form should not carry the hidden attribute")
	}
	if strings.Contains(output, "<script>") {
		t.Errorf("runtime script should only be emitted with a live url")
	}
}

func TestRenderer_PreservesColumnOrder(t *testing.T) {
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})

	last := -1
	for _, column := range testsupport.SampleTemplate().ColumnNames() {
		idx := strings.Index(output, `data-column="`+column+`">`)
		if idx < 0 {
			t.Fatalf("column %q not rendered", column)
		}
		if idx < last {
			t.Fatalf("column %q rendered out of template order", column)
		}
		last = idx
	}
}

func TestRenderer_EmptyControlsShowPlaceholders(t *testing.T) {
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	values := model.FieldValues{"Status": "Archived", "Contact Date": "not a date"}
	output := renderSample(t, r, samplePresentation(t, values, true), render.RenderOptions{})

	for _, want := range []string{
		`<option value="" selected disabled>Select Status</option>`,
		`<option value="" selected disabled>Select User</option>`,
		`<span class="rowform-date-display rowform-muted">Select date</span>`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(output, "Archived") {
		t.Errorf("value outside the option list must not be shown")
	}
}

func TestRenderer_HiddenWhenNotVisible(t *testing.T) {
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, false), render.RenderOptions{})
	if !strings.Contains(output, ` hidden>`) {
		t.Fatalf("hidden form should carry the hidden attribute:\n%s", output)
	}
}

func TestRenderer_CancelAndLiveRuntime(t *testing.T) {
	r, err := vanilla.New(vanilla.WithDefaultStyles())
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{
		CancelAction: "/sessions/abc/cancel",
		LiveURL:      "/sessions/abc/live",
	})

	for _, want := range []string{
		`formaction="/sessions/abc/cancel"`,
		`data-live-url="/sessions/abc/live"`,
		`<script>`,
		`new WebSocket`,
		`<style>`,
		`.rowform-dialog`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestRenderer_IconsAreSanitised(t *testing.T) {
	r, err := vanilla.New(
		vanilla.WithIcon(model.ControlText, `<svg viewBox="0 0 10 10" onload="alert(1)"><script>alert(1)</script><circle cx="5" cy="5" r="4"></circle></svg>`),
		vanilla.WithIcon(model.ControlDate, `<img src="x">`),
	)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})

	if strings.Contains(output, "alert(1)") || strings.Contains(output, "onload") {
		t.Fatalf("icon markup was not sanitised:\n%s", output)
	}
	if !strings.Contains(output, `<circle cx="5" cy="5" r="4">`) {
		t.Fatalf("sanitised icon missing from output")
	}

	start := strings.Index(output, `data-column="Contact Date">`)
	end := strings.Index(output[start:], "</label>")
	if label := output[start : start+end]; strings.Contains(label, "rowform-icon") {
		t.Fatalf("icon that sanitised to nothing should be dropped, got %q", label)
	}
}

func TestRenderer_Localizes(t *testing.T) {
	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	p := samplePresentation(t, nil, true)
	output := renderSample(t, r, p, render.RenderOptions{
		Locale: "es",
		Translator: render.TranslatorFunc(func(_, key string, _ ...any) (string, error) {
			if key == render.KeyActionSubmit {
				return "Agregar fila", nil
			}
			return "", nil
		}),
	})
	if !strings.Contains(output, ">Agregar fila</button>") {
		t.Fatalf("submit label not localized")
	}
	if p.Actions[1].Label != "Add Row" {
		t.Fatalf("render must not mutate the caller's presentation, got %q", p.Actions[1].Label)
	}
}

func TestRenderer_WithComponentRegistry(t *testing.T) {
	registry := components.NewDefaultRegistry()
	registry.MustRegister(components.NameDate, components.Descriptor{
		Renderer: func(buf *bytes.Buffer, field form.FieldView, data components.ComponentData) error {
			buf.WriteString(`<input type="text" id="` + data.ControlID + `" class="custom-date">`)
			return nil
		},
	})

	r, err := vanilla.New(vanilla.WithComponentRegistry(registry))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})
	if !strings.Contains(output, `<input type="text" id="rowform-field-3" class="custom-date">`) {
		t.Fatalf("custom component not used:\n%s", output)
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(name string, data any, out ...io.Writer) (string, error) {
			if name == "templates/form.tmpl" {
				return "custom-output", nil
			}
			return "<component />", nil
		},
	}

	r, err := vanilla.New(vanilla.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})
	if output != "custom-output" {
		t.Fatalf("output = %q", output)
	}
	if stub.calls != len(testsupport.SampleTemplate().Columns)+1 {
		t.Fatalf("expected one template call per column plus the form, got %d", stub.calls)
	}
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName} {
		f, err := vanilla.AssetsFS().Open(name)
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		f.Close()
	}
}

func TestRuntimeScript_OneEventPerEdit(t *testing.T) {
	data, err := fs.ReadFile(vanilla.AssetsFS(), vanilla.RuntimeScriptName)
	if err != nil {
		t.Fatalf("read runtime script: %v", err)
	}
	script := string(data)

	// Selects and date inputs fire both input and change; only one of the
	// listeners may forward them.
	for _, want := range []string{
		`addEventListener("input", editHandler(true))`,
		`addEventListener("change", editHandler(false))`,
		`target.tagName === "TEXTAREA"`,
	} {
		if !strings.Contains(script, want) {
			t.Errorf("runtime script missing %q", want)
		}
	}
	if n := strings.Count(script, `type: "change"`); n != 1 {
		t.Errorf("runtime script sends change from %d places, want 1", n)
	}
}

func acmeManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    "acme",
		Version: "1.0.0",
		Tokens: map[string]string{
			"rowform-accent": "#123456",
			"radius":         "4px",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/acme",
			Files: map[string]string{
				vanilla.ThemeStylesheetKey: "acme.css",
			},
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{"rowform-accent": "#654321"},
				Assets: theme.Assets{
					Files: map[string]string{vanilla.ThemeStylesheetKey: "acme.dark.css"},
				},
			},
		},
	}
}

type selectorCall struct {
	name    string
	variant string
}

type stubThemeSelector struct {
	selection *theme.Selection
	err       error
	calls     []selectorCall
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, s.err
}

func TestRenderer_WithThemeVariant(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{Theme: "acme", Variant: "dark", Manifest: acmeManifest()}}
	r, err := vanilla.New(vanilla.WithDefaultStyles(), vanilla.WithTheme(selector, "acme", "dark"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "dark"}) {
		t.Fatalf("unexpected selector calls: %+v", selector.calls)
	}

	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})
	for _, want := range []string{
		`data-theme="acme"`,
		`data-theme-variant="dark"`,
		`style="--radius: 4px; --rowform-accent: #654321;"`,
		`<link rel="stylesheet" href="/assets/themes/acme/acme.dark.css">`,
		`--rowform-surface:#0f172a`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestRenderer_ThemeBaseVariantAndOverride(t *testing.T) {
	r, err := vanilla.New(vanilla.WithDefaultStyles(), vanilla.WithTheme(vanilla.ManifestSelector(acmeManifest()), "acme", "light"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})
	for _, want := range []string{
		`data-theme-variant="light"`,
		`--rowform-accent: #123456;`,
		`href="/assets/themes/acme/acme.css"`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(output, "--rowform-surface:#0f172a") {
		t.Errorf("light variant must not inline the dark stylesheet")
	}

	output = renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{
		Theme: &theme.RendererConfig{
			Theme:   "override",
			Variant: "dark",
			CSSVars: map[string]string{"--rowform-accent": "#000000"},
		},
	})
	if !strings.Contains(output, `style="--rowform-accent: #000000;"`) || !strings.Contains(output, `data-theme="override"`) {
		t.Errorf("per-render theme not applied:\n%s", output)
	}
	if strings.Contains(output, "<link") {
		t.Errorf("override without AssetURL must not link a stylesheet")
	}
}

func TestRenderer_ThemeErrors(t *testing.T) {
	selector := &stubThemeSelector{err: errors.New("boom")}
	if _, err := vanilla.New(vanilla.WithTheme(selector, "acme", "")); err == nil {
		t.Fatalf("expected selector error to fail construction")
	}
	if _, err := vanilla.New(vanilla.WithTheme(vanilla.ManifestSelector(acmeManifest()), "other", "")); err == nil {
		t.Fatalf("expected unknown theme name to fail")
	}

	r, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output := renderSample(t, r, samplePresentation(t, nil, true), render.RenderOptions{})
	if strings.Contains(output, "data-theme") || strings.Contains(output, "style=") {
		t.Errorf("unthemed render should carry no theme attributes:\n%s", output)
	}
}

type stubTemplateRenderer struct {
	renderTemplateFunc func(name string, data any, out ...io.Writer) (string, error)
	calls              int
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	return s.renderTemplateFunc(name, data, out...)
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
