package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/client"
	"github.com/Dosada05/club-admin/models"
)

func newTeamCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "Team management commands",
	}
	cmd.AddCommand(newTeamCreateCmd(a))
	cmd.AddCommand(newTeamListCmd(a))
	return cmd
}

func newTeamCreateCmd(a *app) *cobra.Command {
	var req client.CreateTeamRequest
	var logoPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a team (admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok, err := a.enter(cmd, access.PathCreateTeam); !ok || err != nil {
				return err
			}

			if err := requireFlags(map[string]string{
				"name":       req.Name,
				"country":    req.Country,
				"discipline": req.Discipline,
			}); err != nil {
				return err
			}

			team, err := a.api.CreateTeam(cmd.Context(), req)
			if err != nil {
				return a.fail("could not create the team", err)
			}

			if logoPath != "" {
				updated, err := uploadLogo(a, cmd, team.ID, logoPath)
				if err != nil {
					a.out(cmd).PrintMessage(fmt.Sprintf("Team %d created, but the logo was not uploaded", team.ID))
					return err
				}
				team = updated
			}

			out := a.out(cmd)
			out.Print(team)
			out.PrintMessage("Team created")
			out.Redirect(access.PathHome)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Team name (required)")
	cmd.Flags().StringVar(&req.Country, "country", "", "Country (required, see `clubctl countries`)")
	cmd.Flags().StringVar(&req.Discipline, "discipline", "", `Discipline: "Fútbol 11", "Fútbol 7" or "Fútbol Sala" (required)`)
	cmd.Flags().StringVar(&req.Description, "description", "", "Description")
	cmd.Flags().StringVar(&logoPath, "logo", "", "Path to a logo image")
	return cmd
}

func newTeamListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List teams",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok, err := a.enter(cmd, access.PathViewTeams); !ok || err != nil {
				return err
			}
			teams, err := a.api.ListTeams(cmd.Context())
			if err != nil {
				return a.fail("could not load teams", err)
			}
			a.out(cmd).Print(teams)
			return nil
		},
	}
}

func uploadLogo(a *app, cmd *cobra.Command, teamID int, path string) (*models.Team, error) {
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		return nil, errors.New("cannot tell the logo image type from its extension")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open logo: %w", err)
	}
	defer f.Close()

	team, err := a.api.UploadLogo(cmd.Context(), teamID, filepath.Base(path), contentType, f)
	if err != nil {
		return nil, a.fail("could not upload the logo", err)
	}
	return team, nil
}

// requireFlags reports every empty value, sorted by flag name.
func requireFlags(values map[string]string) error {
	var missing []string
	for flag, value := range values {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, "--"+flag)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("required: %s", strings.Join(missing, ", "))
}
