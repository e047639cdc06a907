package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/mcp"
)

func newMCPCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the assessor tools to an MCP client over stdio",
		Long: `Serve list_questions, assess_naranjo, analyze_adr and layout_timeline over the
Model Context Protocol on stdin/stdout. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			server := mcp.NewServer(a.logger, a.analyzer, a.store, a.loc, version)
			return server.Run(ctx)
		},
	}
}
