package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/energiefixers071/fixerdesk/pkg/core/services"
)

// SettingsCmd creates the settings command group
func SettingsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change application settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := app.Database.ListSettings(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list settings: %w", err)
			}
			renderSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, err := services.GetSettingValue(app.Ctx, app.Database, args[0], "")
			if err != nil {
				return err
			}
			if services.IsSecretSetting(args[0]) {
				value = services.MaskSecret(value)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if services.IsSecretSetting(args[0]) {
				return fmt.Errorf("%s is a credential, use 'settings credentials' instead", args[0])
			}
			if err := services.SetSetting(app.Ctx, app.Database, app.Logger, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s saved\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(credentialsCmd(app))
	return cmd
}

func credentialsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credentials",
		Short: "Save API tokens (saved tokens override the config file)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			koboToken, _ := cmd.Flags().GetString("kobo-token")
			calendlyToken, _ := cmd.Flags().GetString("calendly-token")
			if koboToken == "" && calendlyToken == "" {
				return errors.New("pass --kobo-token and/or --calendly-token")
			}

			err := services.SaveCredentials(app.Ctx, app.Database, app.Logger, services.Credentials{
				KoboAPIToken:     koboToken,
				CalendlyAPIToken: calendlyToken,
			})
			if err != nil {
				return err
			}

			// Rebuild the clients so an interactive session picks up the new tokens
			if err := app.ConnectClients(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Credentials saved")
			return nil
		},
	}

	cmd.Flags().String("kobo-token", "", "KoboToolbox API token")
	cmd.Flags().String("calendly-token", "", "Calendly personal access token")
	return cmd
}
