package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rowform/pkg/host"
	"github.com/goliatone/go-rowform/pkg/model"
	"github.com/goliatone/go-rowform/pkg/renderers/tui"
)

func newFill(opts *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "fill TEMPLATE",
		Short: "Fill one row in the terminal and print the submitted record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "table" && output != "json" {
				return fmt.Errorf("invalid --output %q: use table or json", output)
			}
			store, err := opts.catalog()
			if err != nil {
				return err
			}
			tmpl, err := store.Lookup(args[0])
			if err != nil {
				return err
			}

			inbox := &host.Inbox{}
			sessions := host.NewManager(
				host.WithLogger(opts.logger),
				host.WithSubmitHandler(inbox.Handle),
			)
			session, err := sessions.Create(tmpl)
			if err != nil {
				return err
			}
			session.Open()

			terminal, err := tui.New(tui.WithPromptDriver(opts.driver))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			outcome, err := terminal.Run(cmd.Context(), session.Form(), session.Values)
			switch {
			case errors.Is(err, tui.ErrAborted):
				fmt.Fprint(out, pterm.Warning.Sprintln("Aborted, row discarded"))
				return nil
			case err != nil:
				return err
			case outcome == tui.OutcomeCancelled:
				fmt.Fprint(out, pterm.Info.Sprintln("Row discarded"))
				return nil
			}

			submissions := inbox.List()
			if len(submissions) == 0 {
				return errors.New("form submitted but no record was received")
			}
			return printSubmission(out, tmpl, submissions[len(submissions)-1], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	return cmd
}

func printSubmission(out io.Writer, tmpl model.Template, submission host.Submission, format string) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(submission)
	}

	data := pterm.TableData{{"Column", "Value"}}
	for _, name := range tmpl.ColumnNames() {
		data = append(data, []string{name, submission.Values.Get(name)})
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprint(out, pterm.Success.Sprintfln("Row added to %s", submission.Template))
	fmt.Fprintln(out, table)
	return nil
}
