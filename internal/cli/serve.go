package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/api"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := api.NewServer(a.config, a.logger, a.newSession(), a.store, a.ollama)

			srvCfg := a.config.GetServerConfig()
			a.logger.WithFields(logrus.Fields{
				"host": srvCfg.Host,
				"port": srvCfg.Port,
			}).Info("Starting Naranjo assessor API")

			if err := server.Start(ctx); err != nil {
				return err
			}
			a.logger.Info("Server stopped")
			return nil
		},
	}
}
