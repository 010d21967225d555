package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"slices"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render"
	rendertemplate "github.com/goliatone/go-rowform/pkg/render/template"
	gotemplate "github.com/goliatone/go-rowform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	icons            map[model.ControlKind]string
	defaultStyles    bool
	themeSelector    theme.ThemeSelector
	themeName        string
	themeVariant     string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default per-kind component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithIcon overrides the icon shown next to labels of the given control kind.
// The markup is sanitised; markup that sanitises to nothing removes the icon.
func WithIcon(kind model.ControlKind, svg string) Option {
	return func(cfg *config) {
		if cfg.icons == nil {
			cfg.icons = make(map[model.ControlKind]string)
		}
		cfg.icons[kind] = sanitizeIconMarkup(svg)
	}
}

// WithDefaultStyles inlines the bundled stylesheet ahead of the dialog.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.defaultStyles = true
	}
}

type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	registry   *components.Registry
	icons      map[model.ControlKind]string
	stylesheet string
	theme      *theme.RendererConfig
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	icons := defaultIconSet()
	for kind, markup := range cfg.icons {
		if markup == "" {
			delete(icons, kind)
			continue
		}
		icons[kind] = markup
	}

	r := &Renderer{
		templates: renderer,
		registry:  cfg.registry,
		icons:     icons,
	}
	if r.registry == nil {
		r.registry = components.NewDefaultRegistry()
	}
	if cfg.defaultStyles {
		r.stylesheet = readAsset(StylesheetName)
	}
	if cfg.themeSelector != nil {
		resolved, err := resolveTheme(cfg.themeSelector, cfg.themeName, cfg.themeVariant)
		if err != nil {
			return nil, err
		}
		r.theme = resolved
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the dialog markup. A hidden presentation still renders,
// carrying the hidden attribute so hosts can toggle it client side.
func (r *Renderer) Render(_ context.Context, presentation form.Presentation, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	presentation.Fields = slices.Clone(presentation.Fields)
	presentation.Actions = slices.Clone(presentation.Actions)
	render.Localize(&presentation, options)

	fields := newComponentRenderer(r.templates, r.registry, r.icons)
	markup := make([]string, 0, len(presentation.Fields))
	for _, field := range presentation.Fields {
		rendered, err := fields.render(field)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		markup = append(markup, rendered)
	}

	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	active := r.theme
	if options.Theme != nil {
		active = options.Theme
	}
	stylesheet := r.stylesheet
	if stylesheet != "" && active != nil && active.Variant == DarkVariant {
		stylesheet += "\n" + readAsset(darkStylesheetName)
	}

	data := map[string]any{
		"form":          presentation,
		"fields":        markup,
		"hidden_fields": hidden,
		"classes":       chromeClasses(),
		"action":        options.Action,
		"cancel_action": options.CancelAction,
		"live_url":      options.LiveURL,
		"stylesheet":    stylesheet,
		"theme":         themeData(active),
	}
	if options.LiveURL != "" {
		data["runtime_script"] = readAsset(RuntimeScriptName)
	}

	result, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
