package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/json-persistence/internal/service/server"
)

// newServeCommand runs the gRPC server.
func newServeCommand(opts *rootOptions) *cobra.Command {
	var metricsAddress string

	cmd := &cobra.Command{
		Use:   "serve [listen-address]",
		Short: "Run the persistence gRPC server.",
		Long: `Serves store, query and name requests over gRPC.

Only the port of server_addr from the configuration is used for listening
(e.g. :50051); a listen address argument overrides it (e.g. 0.0.0.0:9090).
Prometheus metrics are exposed on /metrics when a metrics address is set.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var listenAddress string
			if len(args) > 0 {
				listenAddress = args[0]
			}

			server.InstallGRPCLogger(zapcore.WarnLevel)

			return server.Run(cmd.Context(), &server.Options{
				ConfigPath:     opts.configPath,
				ListenAddress:  listenAddress,
				RootDir:        opts.settings.RootDir,
				MetricsAddress: metricsAddress,
			})
		},
	}

	cmd.Flags().StringVarP(&metricsAddress, "metrics-addr", "m", "", "listen address of the Prometheus metrics endpoint")

	return cmd
}
