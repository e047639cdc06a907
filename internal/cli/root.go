// Package cli implements the naranjo command tree.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand builds the command tree. version is reported by the MCP server.
func NewRootCommand(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "naranjo",
		Short: "Naranjo adverse drug reaction assessor",
		Long: `Naranjo scores the causality of a suspected adverse drug reaction with the
ten-question Naranjo algorithm, asks a local or cloud model for an advisory
analysis, and lays out drug exposures and clinical notes on a timeline.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global config flag, available for all commands.
	cmd.PersistentFlags().String("config", "", "config file path (default searches ., ./config and ~/.naranjo)")

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMCPCommand(version))
	cmd.AddCommand(newQuestionsCommand())
	cmd.AddCommand(newAssessCommand())
	cmd.AddCommand(newSettingsCommand())
	cmd.AddCommand(newSetupCommand())

	return cmd
}
