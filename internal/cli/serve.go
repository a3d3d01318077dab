package cli

import (
	"os/signal"
	"syscall"

	"bookstore/internal/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type serveOptions struct {
	migrate bool
}

func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.Flags().BoolVar(&opts.migrate, "migrate", true, "run migrations before serving")

	return cmd
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, err := openBase()
	if err != nil {
		return err
	}
	defer b.Close()

	if opts.migrate {
		if err := migrate(ctx, b); err != nil {
			return err
		}
	}

	e, publisher, err := buildServer(b, prometheus.DefaultRegisterer)
	if err != nil {
		return err
	}
	defer publisher.Close()

	addr := ":" + b.cfg.Port
	b.log.Info().Str("addr", addr).Str("db", b.cfg.DBDriver).Msg("server starting")

	if err := server.Start(ctx, e, addr); err != nil {
		return err
	}
	b.log.Info().Msg("server stopped")
	return nil
}
