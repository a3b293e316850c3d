package main

import (
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/consenterra/website/internal/server"
	"github.com/consenterra/website/pkg/logging"
	"github.com/consenterra/website/pkg/metrics"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.load()
			if err != nil {
				return err
			}

			m := metrics.NewMetrics(server.MetricsNamespace)

			opts := cfg.Log.LoggingOptions()
			opts.Output = cmd.OutOrStdout()
			opts.Hooks = append(opts.Hooks, m.LogHook())
			logger, err := logging.New(opts)
			if err != nil {
				return errors.Wrap(err, "failed to create logger")
			}
			logging.SetDefault(logger)

			srv := server.New(cfg,
				server.WithLogger(logger),
				server.WithMetrics(m),
				server.WithVersion(version),
			)
			return srv.Run(cmd.Context())
		},
	}

	flags := cmd.Flags()
	flags.String("addr", "", "listen address, e.g. :8080")
	flags.Bool("dev", false, "development mode: any websocket origin, debug logging, relaxed timeouts")

	_ = a.v.BindPFlag("server.addr", flags.Lookup("addr"))
	_ = a.v.BindPFlag("dev", flags.Lookup("dev"))

	return cmd
}
