package commands

import (
	"github.com/spf13/cobra"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
)

// AppointmentsCmd creates the appointments command group
func AppointmentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "Review appointments synced from Calendly",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List upcoming appointments (use --all for past ones too)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			opts := services.ListAppointmentsOptions{UpcomingOnly: !all}
			opts.Limit, _ = cmd.Flags().GetInt("limit")
			if status := optionalString(cmd, "status"); status != nil {
				s := model.AppointmentStatus(*status)
				opts.Status = &s
			}

			appointments, err := services.ListAppointments(app.Ctx, app.Database, opts, app.now())
			if err != nil {
				return err
			}
			renderAppointments(cmd.OutOrStdout(), appointments)
			return nil
		},
	}
	list.Flags().Bool("all", false, "Include past appointments")
	list.Flags().String("status", "", "Only appointments with this status")
	list.Flags().Int("limit", 0, "Maximum number of appointments to list")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show the details of one appointment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			appointment, err := services.ShowAppointment(app.Ctx, app.Database, id)
			if err != nil {
				return err
			}
			renderAppointment(cmd.OutOrStdout(), appointment)
			return nil
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}
