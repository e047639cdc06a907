package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/naranjo-adr-assessor/internal/domain"
	"github.com/naranjo-adr-assessor/internal/settings"
)

func newSettingsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the saved AI provider settings",
	}

	cmd.AddCommand(newSettingsShowCommand())
	cmd.AddCommand(newSettingsSetCommand())
	cmd.AddCommand(newSettingsModelsCommand())

	return cmd
}

func newSettingsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved settings with the credential masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			cfg, err := a.store.Load(cmd.Context())
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg.Masked())
		},
	}
}

func newSettingsSetCommand() *cobra.Command {
	var provider, model, endpoint, credential string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update the saved settings; unset flags keep their current value",
		Example: `  naranjo settings set --provider local --model medgemma --endpoint http://localhost:11434
  naranjo settings set --provider cloud --model gemini-2.5-flash --credential "$GEMINI_API_KEY"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			cfg, err := a.store.Load(ctx)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("provider") {
				cfg.Provider = domain.ProviderKind(provider)
			}
			if flags.Changed("model") {
				cfg.ModelName = model
			}
			if flags.Changed("endpoint") {
				cfg.EndpointURL = endpoint
			}
			if flags.Changed("credential") {
				cfg.Credential = credential
			}

			cfg, err = settings.Normalize(cfg)
			if err != nil {
				return err
			}
			if err := a.store.Save(ctx, cfg); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), cfg.Masked())
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "local or cloud")
	cmd.Flags().StringVar(&model, "model", "", "model name")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "local endpoint URL")
	cmd.Flags().StringVar(&credential, "credential", "", "cloud API key; pass an empty value to clear it")

	return cmd
}

func newSettingsModelsCommand() *cobra.Command {
	var endpoint string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the models installed on the local endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			if endpoint == "" {
				cfg, err := a.store.Load(ctx)
				if err != nil {
					return err
				}
				endpoint = cfg.EndpointURL
			}

			models, err := a.ollama.ListModels(ctx, endpoint)
			if err != nil {
				return err
			}
			for _, m := range models {
				fmt.Fprintln(cmd.OutOrStdout(), m)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&endpoint, "endpoint", "", "local endpoint URL (default: saved setting)")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
