package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/setup"
)

func newSetupCommand() *cobra.Command {
	var clientConfig string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Register the MCP server with a desktop MCP client",
	}
	cmd.PersistentFlags().StringVar(&clientConfig, "client-config", "", "MCP client config file (default: the desktop client's location for this OS)")

	resolve := func() (string, error) {
		if clientConfig != "" {
			return clientConfig, nil
		}
		return setup.DefaultClientConfigPath()
	}

	var binary, dataDir string
	register := &cobra.Command{
		Use:   "register",
		Short: "Add or replace this server in the client config",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			configFile, _ := cmd.Root().PersistentFlags().GetString("config")

			entry, err := setup.Register(path, setup.Options{
				BinaryPath: binary,
				DataDir:    dataDir,
				ConfigFile: configFile,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s in %s\n", setup.ServerKey, path)
			fmt.Fprintf(cmd.OutOrStdout(), "  command: %s %v\n", entry.Command, entry.Args)
			return nil
		},
	}
	register.Flags().StringVar(&binary, "binary", "", "path to the naranjo binary (default: this executable)")
	register.Flags().StringVar(&dataDir, "data-dir", "", "data directory passed to the server")

	status := &cobra.Command{
		Use:   "status",
		Short: "Show whether the server is registered",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolve()
			if err != nil {
				return err
			}
			st, err := setup.Inspect(path)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), st)
		},
	}

	cmd.AddCommand(register, status)
	return cmd
}
