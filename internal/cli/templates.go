package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rowform/pkg/model"
)

func newTemplates(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"ls"},
		Short:   "List catalog templates",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.catalog()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			templates := make([]model.Template, 0, store.Len())
			for _, name := range store.Names() {
				tmpl, _ := store.Template(name)
				templates = append(templates, tmpl)
			}

			switch output {
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(templates)
			case "table":
			default:
				return fmt.Errorf("invalid --output %q: use table or json", output)
			}

			data := pterm.TableData{{"Name", "Columns", "Required"}}
			for _, tmpl := range templates {
				required := 0
				for _, column := range tmpl.Columns {
					if column.Required {
						required++
					}
				}
				data = append(data, []string{tmpl.Name, strconv.Itoa(len(tmpl.Columns)), strconv.Itoa(required)})
			}
			table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, table)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}
