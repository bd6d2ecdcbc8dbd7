package commands

import (
	"github.com/spf13/cobra"

	"github.com/energiefixers071/fixerdesk/pkg/core/services"
)

// SyncCmd creates the sync command and its per-source subcommands
func SyncCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Pull form submissions and appointments from the external services",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "visits",
		Short: "Sync visits from KoboToolbox form submissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := services.SyncVisits(app.Ctx, app.Database, app.KoboClient, app.Cfg, app.Logger, app.now())
			if err != nil {
				return err
			}
			renderSyncSummary(cmd.OutOrStdout(), "kobotoolbox", summary)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "appointments",
		Short: "Sync upcoming appointments from Calendly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := services.SyncAppointments(app.Ctx, app.Database, app.CalendlyClient, app.Logger, app.now())
			if err != nil {
				return err
			}
			renderSyncSummary(cmd.OutOrStdout(), "calendly", summary)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "all",
		Short: "Sync every configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result := services.SyncAll(app.Ctx, app.Database, app.KoboClient, app.CalendlyClient, app.Cfg, app.Logger, app.now())
			renderSyncAll(cmd.OutOrStdout(), result)
			return nil
		},
	})

	return cmd
}
