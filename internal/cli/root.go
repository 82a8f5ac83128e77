// Package cli implements the meshelper command line: the interactive query
// commands and the serve command for the machine surface.
package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/juju/clock"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/qfactory/mes-helper/internal/app"
	"github.com/qfactory/mes-helper/internal/pkg/config"
	"github.com/qfactory/mes-helper/pkg/logger"
)

// runner carries what the subcommands share once the root command has
// loaded the configuration.
type runner struct {
	lookuper envconfig.Lookuper
	clock    clock.Clock
	logLevel string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand builds the command tree. Configuration is read from the
// environment.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&runner{lookuper: envconfig.OsLookuper(), clock: clock.WallClock})
}

func newRootCommand(r *runner) *cobra.Command {
	root := &cobra.Command{
		Use:           "meshelper",
		Short:         "Query QFactory MES inventory lots and shipment results",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.setup(cmd)
		},
	}
	root.PersistentFlags().StringVar(&r.logLevel, "log-level", "", "Log level override (trace, debug, info, warn, error)")

	root.AddCommand(
		newServeCommand(r),
		newLoginCommand(r),
		newInventoryCommand(r),
		newShipmentsCommand(r),
	)
	return root
}

// setup loads configuration and initialises logging. Interactive commands
// log to stderr at warn level by default so tables on stdout stay readable.
func (r *runner) setup(cmd *cobra.Command) error {
	cfg, err := config.LoadFrom(cmd.Context(), r.lookuper)
	if err != nil {
		return err
	}
	r.cfg = cfg

	level := cfg.LogLevel
	var out io.Writer = os.Stdout
	if cmd.Name() != "serve" {
		out = cmd.ErrOrStderr()
		level = "warn"
	}
	if r.logLevel != "" {
		level = r.logLevel
	}
	r.log = logger.Init(logger.Options{
		Level:   level,
		Pretty:  cfg.IsDevelopment(),
		Output:  out,
		Service: "mes-helper",
	})
	return nil
}

// open builds the application for one command run.
func (r *runner) open(ctx context.Context) (*app.App, error) {
	return app.New(ctx, r.cfg, r.log)
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			pterm.Error.Println(err.Error())
		}
		stop()
		os.Exit(1)
	}
}
