package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	rowform "github.com/goliatone/go-rowform"
	"github.com/goliatone/go-rowform/pkg/openapi"
)

func newImportOpenAPI(_ *globalOptions) *cobra.Command {
	var (
		name       string
		noValidate bool
	)
	cmd := &cobra.Command{
		Use:   "import-openapi FILE [OPERATION]",
		Short: "Derive a template from an OpenAPI operation's request body",
		Long:  "Prints the template as YAML. Without OPERATION, lists the operation ids in FILE.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			document, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				ids, err := openapi.OperationIDs(cmd.Context(), document)
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(out, id)
				}
				return nil
			}

			tmpl, err := rowform.TemplateFromOpenAPI(cmd.Context(), document, args[1],
				openapi.WithTemplateName(name),
				openapi.WithValidation(!noValidate),
			)
			if err != nil {
				return err
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(tmpl); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Template name (defaults to the operation summary)")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "Skip OpenAPI document validation")
	return cmd
}
