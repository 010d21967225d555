package vanilla

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

const (
	// ThemeStylesheetKey is the theme asset key for a stylesheet linked ahead
	// of the dialog.
	ThemeStylesheetKey = "rowform.stylesheet"
	// DarkVariant selects the bundled dark stylesheet when default styles are
	// inlined.
	DarkVariant = "dark"

	darkStylesheetName = "rowform-dark.css"
)

// WithTheme resolves name and variant through selector when the renderer is
// built. Tokens become CSS custom properties on the dialog, so a token
// "rowform-accent" overrides --rowform-accent in the bundled stylesheet.
// RenderOptions.Theme replaces the resolved theme for a single render.
func WithTheme(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.themeSelector = selector
		cfg.themeName = name
		cfg.themeVariant = variant
	}
}

// ManifestSelector serves a single manifest as a theme.ThemeSelector. The
// requested variant is kept even when the manifest does not declare it, in
// which case only base tokens apply.
func ManifestSelector(manifest *theme.Manifest) theme.ThemeSelector {
	return manifestSelector{manifest: manifest}
}

type manifestSelector struct {
	manifest *theme.Manifest
}

func (s manifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if s.manifest == nil {
		return nil, errors.New("vanilla: no theme manifest")
	}
	if name != "" && name != s.manifest.Name {
		return nil, fmt.Errorf("vanilla: theme %q not found", name)
	}
	return &theme.Selection{Theme: s.manifest.Name, Variant: variant, Manifest: s.manifest}, nil
}

func resolveTheme(selector theme.ThemeSelector, name, variant string) (*theme.RendererConfig, error) {
	selection, err := selector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, fmt.Errorf("vanilla renderer: theme %q resolved to nothing", name)
	}
	return rendererConfig(selection), nil
}

// rendererConfig flattens a selection, letting the variant override base
// tokens, partials and asset files.
func rendererConfig(selection *theme.Selection) *theme.RendererConfig {
	cfg := &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	prefix := manifest.Assets.Prefix
	files := map[string]string{}
	mergeInto(cfg.Tokens, manifest.Tokens)
	mergeInto(cfg.Partials, manifest.Templates)
	mergeInto(files, manifest.Assets.Files)
	if v, ok := manifest.Variants[selection.Variant]; ok {
		mergeInto(cfg.Tokens, v.Tokens)
		mergeInto(cfg.Partials, v.Templates)
		mergeInto(files, v.Assets.Files)
		if v.Assets.Prefix != "" {
			prefix = v.Assets.Prefix
		}
	}

	for key, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return strings.TrimSuffix(prefix, "/") + "/" + file
	}
	return cfg
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		dst[key] = value
	}
}

// themeData is what form.tmpl sees under "theme".
func themeData(cfg *theme.RendererConfig) map[string]string {
	if cfg == nil {
		return map[string]string{}
	}
	data := map[string]string{
		"name":           cfg.Theme,
		"variant":        cfg.Variant,
		"css_vars_style": cssVarsStyle(cfg.CSSVars),
	}
	if cfg.AssetURL != nil {
		data["stylesheet_url"] = cfg.AssetURL(ThemeStylesheetKey)
	}
	return data
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, key := range keys {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";")
	}
	return b.String()
}
