package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-rowform/internal/server"
	"github.com/goliatone/go-rowform/pkg/host"
	"github.com/goliatone/go-rowform/pkg/renderers/vanilla"
)

func newServe(opts *globalOptions) *cobra.Command {
	var (
		addr   string
		themes themeFlags
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve row forms over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := opts.catalog()
			if err != nil {
				return err
			}

			inbox := &host.Inbox{}
			sessions := host.NewManager(
				host.WithLogger(opts.logger),
				host.WithSubmitHandler(func(submission host.Submission) {
					inbox.Handle(submission)
					opts.logger.WithFields(logrus.Fields{
						"template":      submission.Template,
						"submission_id": submission.ID,
					}).Info("row received")
				}),
			)

			vanillaOptions, err := themes.vanillaOptions()
			if err != nil {
				return err
			}
			renderer, err := vanilla.New(append(vanillaOptions, vanilla.WithDefaultStyles())...)
			if err != nil {
				return err
			}

			srv, err := server.New(server.Config{
				Catalog:  store,
				Sessions: sessions,
				Renderer: renderer,
				Inbox:    inbox,
				Logger:   opts.logger,
			})
			if err != nil {
				return err
			}
			return srv.ListenAndServe(cmd.Context(), addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8080", "Address to listen on")
	themes.AddFlags(cmd.Flags())
	return cmd
}
