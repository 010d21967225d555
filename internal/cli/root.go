// Package cli implements the rowform command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-rowform/pkg/catalog"
	"github.com/goliatone/go-rowform/pkg/renderers/tui"
)

// New builds the root command.
func New() *cobra.Command {
	return newRoot(nil)
}

// RunAndHandleError executes the command, prints any error and exits with 0
// or 1. It never returns.
func RunAndHandleError(ctx context.Context, cmd *cobra.Command) {
	cmd.SilenceErrors = true
	if err := cmd.ExecuteContext(ctx); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
	os.Exit(0)
}

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	LogLevel     string
	TemplatesDir string
	Strict       bool

	logger *logrus.Logger
	// driver overrides the terminal prompt driver used by fill.
	driver tui.PromptDriver
}

func (o *globalOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	fs.StringVar(&o.TemplatesDir, "templates", "", "Directory of YAML/JSON templates (defaults to the builtin catalog)")
	fs.BoolVar(&o.Strict, "strict", false, "Validate templates against the CUE schema while loading")
}

func (o *globalOptions) PersistentPre(cmd *cobra.Command, _ []string) error {
	level, err := logrus.ParseLevel(o.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	o.logger = logrus.New()
	o.logger.SetOutput(cmd.ErrOrStderr())
	o.logger.SetLevel(level)
	o.logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func (o *globalOptions) catalog() (*catalog.Store, error) {
	var options []catalog.LoadOption
	if o.Strict {
		options = append(options, catalog.WithCUEValidation())
	}
	if o.TemplatesDir == "" {
		return catalog.Builtin(options...)
	}
	store, err := catalog.LoadFS(os.DirFS(o.TemplatesDir), options...)
	if err != nil {
		return nil, err
	}
	o.logger.WithFields(logrus.Fields{"dir": o.TemplatesDir, "templates": store.Len()}).Debug("templates loaded")
	return store, nil
}

func newRoot(driver tui.PromptDriver) *cobra.Command {
	opts := &globalOptions{driver: driver}
	root := &cobra.Command{
		Use:   "rowform",
		Short: "Dynamic row forms for table templates",
		Long:  "rowform renders one control per template column and collects new rows from a browser or the terminal.",
		Example: `
# Serve the builtin templates
rowform serve --addr :8080

# Fill a row in the terminal
rowform fill "Customer Contacts"`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		PersistentPreRunE: opts.PersistentPre,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	opts.AddFlags(root.PersistentFlags())

	root.AddCommand(
		newServe(opts),
		newFill(opts),
		newRender(opts),
		newImportOpenAPI(opts),
		newTemplates(opts),
	)
	return root
}
