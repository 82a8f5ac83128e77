package cli

import (
	"github.com/spf13/cobra"
)

func newServeCommand(r *runner) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for automated agents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := r.open(cmd.Context())
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Close(cmd.Context()); err != nil {
					r.log.Warn().Err(err).Msg("failed to close audit store")
				}
			}()
			return a.Serve(cmd.Context())
		},
	}
}
