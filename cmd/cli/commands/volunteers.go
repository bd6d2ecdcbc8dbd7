package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/energiefixers071/fixerdesk/pkg/core/model"
	"github.com/energiefixers071/fixerdesk/pkg/core/services"
	"github.com/energiefixers071/fixerdesk/pkg/db"
)

// VolunteersCmd creates the volunteers command group
func VolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "volunteers",
		Short: "Manage the volunteer directory",
	}

	cmd.AddCommand(
		listVolunteersCmd(app),
		addVolunteerCmd(app),
		editVolunteerCmd(app),
		deleteVolunteerCmd(app),
		showVolunteerCmd(app),
	)
	return cmd
}

func listVolunteersCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query, _ := cmd.Flags().GetString("query")
			activeOnly, _ := cmd.Flags().GetBool("active")

			volunteers, err := services.ListVolunteers(app.Ctx, app.Database, db.VolunteerFilter{
				Query:      query,
				ActiveOnly: activeOnly,
			})
			if err != nil {
				return err
			}

			renderVolunteers(cmd.OutOrStdout(), volunteers)
			return nil
		},
	}

	cmd.Flags().String("query", "", "Filter by name, email or skills")
	cmd.Flags().Bool("active", false, "Only list active volunteers")
	return cmd
}

func addVolunteerFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "Full name")
	cmd.Flags().String("email", "", "Email address")
	cmd.Flags().String("phone", "", "Phone number")
	cmd.Flags().String("address", "", "Home address")
	cmd.Flags().String("skills", "", "Comma-separated skills")
	cmd.Flags().String("availability", "", "When the volunteer is available")
	cmd.Flags().String("notes", "", "Free-form notes")
	cmd.Flags().Bool("active", true, "Whether the volunteer is active")
}

func volunteerFragment(cmd *cobra.Command) model.VolunteerFragment {
	return model.VolunteerFragment{
		Name:         optionalString(cmd, "name"),
		Email:        optionalString(cmd, "email"),
		Phone:        optionalString(cmd, "phone"),
		Address:      optionalString(cmd, "address"),
		Skills:       optionalString(cmd, "skills"),
		Availability: optionalString(cmd, "availability"),
		Notes:        optionalString(cmd, "notes"),
		IsActive:     optionalBool(cmd, "active"),
	}
}

func addVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add --name <name>",
		Short: "Add a volunteer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteer, err := services.AddVolunteer(app.Ctx, app.Database, app.Logger, volunteerFragment(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Volunteer %s added (ID %d)\n", volunteer.Name, volunteer.ID)
			return nil
		},
	}

	addVolunteerFlags(cmd)
	return cmd
}

func editVolunteerCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change the given fields of a volunteer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			volunteer, err := services.EditVolunteer(app.Ctx, app.Database, app.Logger, id, volunteerFragment(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Volunteer %s updated\n", volunteer.Name)
			return nil
		},
	}

	addVolunteerFlags(cmd)
	return cmd
}

func deleteVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a volunteer (their visits are kept)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			app.Logger.Debug("volunteers delete command", zap.Int64("volunteer_id", id))
			if err := services.DeleteVolunteer(app.Ctx, app.Database, app.Logger, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Volunteer %d deleted\n", id)
			return nil
		},
	}
}

func showVolunteerCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a volunteer with visit statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			summary, err := services.ShowVolunteer(app.Ctx, app.Database, id)
			if err != nil {
				return err
			}
			renderVolunteer(cmd.OutOrStdout(), summary)
			return nil
		},
	}
}
