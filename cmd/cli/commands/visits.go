package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// VisitsCmd creates the visits command group
func VisitsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "visits",
		Short: "Record and review home visits",
	}

	cmd.AddCommand(
		listVisitsCmd(app),
		addVisitCmd(app),
		editVisitCmd(app),
		showVisitCmd(app),
		setVisitStatusCmd(app),
	)
	return cmd
}

func listVisitsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visits, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := db.VisitFilter{VolunteerID: optionalInt64(cmd, "volunteer")}
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			var err error
			if filter.From, err = optionalDate(cmd, "from"); err != nil {
				return err
			}
			if filter.To, err = optionalDate(cmd, "to"); err != nil {
				return err
			}
			if status := optionalString(cmd, "status"); status != nil {
				s := model.VisitStatus(*status)
				filter.Status = &s
			}

			visits, err := services.ListVisits(app.Ctx, app.Database, filter)
			if err != nil {
				return err
			}
			renderVisits(cmd.OutOrStdout(), visits)
			return nil
		},
	}

	cmd.Flags().String("from", "", "Only visits on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "Only visits on or before this date (YYYY-MM-DD)")
	cmd.Flags().Int64("volunteer", 0, "Only visits performed by this volunteer id")
	cmd.Flags().String("status", "", "Only visits with this status (planned, completed, cancelled)")
	cmd.Flags().Int("limit", 0, "Maximum number of visits to list")
	return cmd
}

func addVisitFlags(cmd *cobra.Command) {
	cmd.Flags().String("address", "", "Address of the visited home")
	cmd.Flags().String("date", "", "Visit date (YYYY-MM-DD, default today)")
	cmd.Flags().String("time", "", "Appointment time as agreed with the resident")
	cmd.Flags().Int64("volunteer", 0, "Id of the volunteer who performed the visit")
	cmd.Flags().Int64("volunteer2", 0, "Id of the second volunteer")
	cmd.Flags().Int("residents", 0, "Number of residents")
	cmd.Flags().String("email", "", "Resident email address")
	cmd.Flags().String("status", "", "Visit status (planned, completed, cancelled)")
	cmd.Flags().String("remarks", "", "Remarks from the visit")
	cmd.Flags().String("notes", "", "Internal notes")
	cmd.Flags().Bool("mold", false, "Mold issues found")
	cmd.Flags().Bool("moisture", false, "Moisture issues found")
	cmd.Flags().Bool("draft", false, "Draft issues found")
}

func visitFragment(cmd *cobra.Command) (model.VisitFragment, error) {
	date, err := optionalDate(cmd, "date")
	if err != nil {
		return model.VisitFragment{}, err
	}

	fields := model.VisitFragment{
		Address:         optionalString(cmd, "address"),
		VisitDate:       date,
		AppointmentTime: optionalString(cmd, "time"),
		VolunteerID:     optionalInt64(cmd, "volunteer"),
		Volunteer2ID:    optionalInt64(cmd, "volunteer2"),
		ResidentsCount:  optionalInt(cmd, "residents"),
		ResidentEmail:   optionalString(cmd, "email"),
		OtherRemarks:    optionalString(cmd, "remarks"),
		Notes:           optionalString(cmd, "notes"),
	}
	fields.MoldIssues = optionalBool(cmd, "mold")
	fields.MoistureIssues = optionalBool(cmd, "moisture")
	fields.DraftIssues = optionalBool(cmd, "draft")
	if status := optionalString(cmd, "status"); status != nil {
		s := model.VisitStatus(*status)
		fields.Status = &s
	}
	return fields, nil
}

func addVisitCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add --address <address>",
		Short: "Record a visit by hand",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := visitFragment(cmd)
			if err != nil {
				return err
			}

			visit, err := services.AddVisit(app.Ctx, app.Database, app.Logger, fields, app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit to %s on %s added (ID %d)\n",
				visit.Address, visit.VisitDate.Format(dateLayout), visit.ID)
			return nil
		},
	}

	addVisitFlags(cmd)
	return cmd
}

func editVisitCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the given fields of a visit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fields, err := visitFragment(cmd)
			if err != nil {
				return err
			}

			if _, err := services.EditVisit(app.Ctx, app.Database, app.Logger, id, fields, app.now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit %d updated\n", id)
			return nil
		},
	}

	addVisitFlags(cmd)
	return cmd
}

func showVisitCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a visit with its assessment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			detail, err := services.ShowVisit(app.Ctx, app.Database, id)
			if err != nil {
				return err
			}
			renderVisitDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func setVisitStatusCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <id> <planned|completed|cancelled>",
		Short: "Change the status of a visit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			visit, err := services.SetVisitStatus(app.Ctx, app.Database, app.Logger, id, model.VisitStatus(args[1]), app.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Visit %d is now %s\n", visit.ID, visit.Status)
			return nil
		},
	}
}
