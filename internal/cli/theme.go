package cli

import (
	"errors"
	"fmt"
	"os"

	theme "github.com/goliatone/go-theme"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
)

type themeFlags struct {
	Manifest string
	Variant  string
}

func (t *themeFlags) AddFlags(flags *pflag.FlagSet) {
	flags.StringVar(&t.Manifest, "theme", "", "Theme manifest (YAML or JSON) whose tokens style the dialog")
	flags.StringVar(&t.Variant, "theme-variant", "", "Theme variant to apply, e.g. dark")
}

// vanillaOptions returns the renderer options for the selected theme, or nil
// when no manifest was given.
func (t *themeFlags) vanillaOptions() ([]vanilla.Option, error) {
	if t.Manifest == "" {
		if t.Variant != "" {
			return nil, errors.New("--theme-variant requires --theme")
		}
		return nil, nil
	}
	data, err := os.ReadFile(t.Manifest)
	if err != nil {
		return nil, fmt.Errorf("read theme: %w", err)
	}
	var manifest theme.Manifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("parse theme %s: %w", t.Manifest, err)
	}
	return []vanilla.Option{
		vanilla.WithTheme(vanilla.ManifestSelector(&manifest), manifest.Name, t.Variant),
	}, nil
}
