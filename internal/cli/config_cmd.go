package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage AI provider settings",
	}

	cmd.AddCommand(
		newConfigSetKeyCmd(app),
		newConfigSetProviderCmd(app),
		newConfigSetModelCmd(app),
	)

	return cmd
}

func newConfigSetKeyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-key <gemini|openrouter> <api-key>",
		Short: "Store an API key for a provider",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.Store.Settings()
			switch args[0] {
			case "gemini":
				settings.GeminiKey = args[1]
			case "openrouter":
				settings.OpenRouterKey = args[1]
			default:
				return fmt.Errorf("unknown provider %q, want gemini or openrouter", args[0])
			}
			return app.Store.SaveSettings(settings)
		},
	}
	return cmd
}

func newConfigSetProviderCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-provider <auto|gemini|openrouter>",
		Short: "Choose the preferred AI provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "auto", "gemini", "openrouter":
			default:
				return fmt.Errorf("unknown provider %q, want auto, gemini, or openrouter", args[0])
			}
			settings := app.Store.Settings()
			settings.Provider = args[0]
			return app.Store.SaveSettings(settings)
		},
	}
	return cmd
}

func newConfigSetModelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set-model <model>",
		Short: "Pin an explicit OpenRouter model ahead of the fallback list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := app.Store.Settings()
			settings.Model = args[0]
			return app.Store.SaveSettings(settings)
		},
	}
	return cmd
}
