package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/models"
)

func newRolesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Role assignment commands (admin)",
	}
	cmd.AddCommand(newRolesOptionsCmd(a))
	cmd.AddCommand(newRolesAssignCmd(a))
	return cmd
}

func newRolesOptionsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List users, teams and roles available for assignment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok, err := a.enter(cmd, access.PathAssignRoles); !ok || err != nil {
				return err
			}
			opts, err := a.api.AssignmentOptions(cmd.Context())
			if err != nil {
				return a.fail("could not load users and teams", err)
			}
			a.out(cmd).Print(opts)
			return nil
		},
	}
}

func newRolesAssignCmd(a *app) *cobra.Command {
	var (
		userID int
		role   string
		teamID int
	)

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign a role and a team to a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok, err := a.enter(cmd, access.PathAssignRoles); !ok || err != nil {
				return err
			}
			if userID <= 0 || role == "" {
				return errors.New("--user and --role are required")
			}
			parsed, err := models.ParseRole(role)
			if err != nil {
				return err
			}

			var team *int
			if cmd.Flags().Changed("team") {
				team = &teamID
			}

			profile, err := a.api.AssignRole(cmd.Context(), userID, parsed, team)
			if err != nil {
				return a.fail("could not update the role", err)
			}

			out := a.out(cmd)
			out.Print(profile)
			out.PrintMessage("Role updated")
			return nil
		},
	}

	cmd.Flags().IntVar(&userID, "user", 0, "User id (required)")
	cmd.Flags().StringVar(&role, "role", "", "Role: admin, op, staff or player (required)")
	cmd.Flags().IntVar(&teamID, "team", 0, "Team id (required for every role except admin)")
	return cmd
}
