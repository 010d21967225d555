package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rowform "github.com/goliatone/go-rowform"
	"github.com/goliatone/go-rowform/pkg/form"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/render"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
)

type renderOptions struct {
	ValuesFile string
	Hidden     bool
	Renderer   string
	Action     string
	Styles     bool
	Theme      themeFlags
}

func newRender(opts *globalOptions) *cobra.Command {
	var ro renderOptions
	cmd := &cobra.Command{
		Use:   "render TEMPLATE",
		Short: "Render a template's form to stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := opts.catalog()
			if err != nil {
				return err
			}
			tmpl, err := store.Lookup(args[0])
			if err != nil {
				return err
			}
			values, err := readValues(ro.ValuesFile)
			if err != nil {
				return err
			}

			f, err := form.New(&tmpl, form.Callbacks{})
			if err != nil {
				return err
			}

			vanillaOptions, err := ro.Theme.vanillaOptions()
			if err != nil {
				return err
			}
			if ro.Styles {
				vanillaOptions = append(vanillaOptions, vanilla.WithDefaultStyles())
			}
			renderers, err := rowform.NewRenderers(vanillaOptions...)
			if err != nil {
				return err
			}
			renderer, err := renderers.Resolve(ro.Renderer)
			if err != nil {
				return err
			}

			output, err := renderer.Render(cmd.Context(), f.Render(values, !ro.Hidden), render.RenderOptions{
				Action: ro.Action,
			})
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(output)
			return err
		},
	}
	cmd.Flags().StringVar(&ro.ValuesFile, "values", "", "JSON file of column values to prefill")
	cmd.Flags().BoolVar(&ro.Hidden, "hidden", false, "Render the form in its hidden state")
	cmd.Flags().StringVar(&ro.Renderer, "renderer", "vanilla", "Renderer to use (vanilla, tui)")
	cmd.Flags().StringVar(&ro.Action, "action", "", "URL the submit button posts to")
	cmd.Flags().BoolVar(&ro.Styles, "styles", false, "Inline the default stylesheet")
	ro.Theme.AddFlags(cmd.Flags())
	return cmd
}

func readValues(path string) (model.FieldValues, error) {
	if path == "" {
		return model.FieldValues{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	var values model.FieldValues
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}
