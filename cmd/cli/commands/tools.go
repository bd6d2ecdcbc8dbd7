package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/energiefixers071/fixerdesk/pkg/core/services"
)

// DashboardCmd creates the dashboard command
func DashboardCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show counters, recent visits and upcoming appointments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.autoSync(cmd.OutOrStdout()); err != nil {
				return err
			}

			result, err := services.Dashboard(app.Ctx, app.Database, app.Logger, app.now())
			if err != nil {
				return err
			}
			renderDashboard(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

// BackupCmd creates the backup command
func BackupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Write a timestamped copy of the database to the backup directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := services.BackupDatabase(app.Ctx, app.Database, app.Cfg, app.Logger, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Backup written to %s\n", path)
			return nil
		},
	}
}

// LinkCmd creates the link command
func LinkCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "link",
		Short: "Print an intake form link with the given answers pre-filled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			address, _ := cmd.Flags().GetString("address")
			visitTime, _ := cmd.Flags().GetString("time")
			performedBy, _ := cmd.Flags().GetStringSlice("by")

			link, err := services.GenerateFormLink(app.Cfg.Kobo.FormURL, app.Cfg.Kobo.Group, services.FormLinkFields{
				Address:     address,
				VisitTime:   visitTime,
				PerformedBy: performedBy,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), link)
			return nil
		},
	}

	cmd.Flags().String("address", "", "Address of the home to visit")
	cmd.Flags().String("time", "", "Agreed appointment time")
	cmd.Flags().StringSlice("by", nil, "Volunteers performing the visit (repeat or comma-separate)")
	return cmd
}

// CheckCmd creates the check command
func CheckCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test the connection to KoboToolbox and Calendly",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses := services.CheckConnections(app.Ctx, app.Logger,
				services.Probe{Source: "kobotoolbox", Client: app.KoboClient},
				services.Probe{Source: "calendly", Client: app.CalendlyClient},
			)
			renderConnections(cmd.OutOrStdout(), statuses)
			return nil
		},
	}
}
