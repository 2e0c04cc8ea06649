package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the governance HTTP API",
		Long: `Serve the governance HTTP API under /api, with /healthz and
Prometheus metrics on /metrics. The server shuts down gracefully on
SIGINT or SIGTERM.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app.Log.Info("serving governance api", "addr", app.Config.ServerAddr, "data_dir", app.Config.DataDir)
			return app.Server.ListenAndServe(ctx)
		},
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to [server] addr or :8645)")

	return cmd
}
