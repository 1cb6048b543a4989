package cli

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
	"github.com/Dosada05/club-admin/squad"
)

const birthDateLayout = "2006-01-02"

func newPlayerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Roster commands (admin, op)",
	}
	cmd.AddCommand(newPlayerListCmd(a))
	cmd.AddCommand(newPlayerAddCmd(a))
	cmd.AddCommand(newPlayerEditCmd(a))
	cmd.AddCommand(newPlayerRemoveCmd(a))
	return cmd
}

type playerFields struct {
	team        int
	name        string
	surname     string
	nickname    string
	birthDate   string
	nationality string
	number      int
	position    string
	laterality  string
}

func (p *playerFields) bind(flags *pflag.FlagSet) {
	flags.StringVar(&p.name, "name", "", "First name")
	flags.StringVar(&p.surname, "surname", "", "Surname")
	flags.StringVar(&p.nickname, "nickname", "", "Nickname")
	flags.StringVar(&p.birthDate, "birth-date", "", "Birth date, YYYY-MM-DD")
	flags.StringVar(&p.nationality, "nationality", "", "Nationality")
	flags.IntVar(&p.number, "number", 0, "Shirt number, 1-99")
	flags.StringVar(&p.position, "position", "", "Position, depends on the team discipline")
	flags.StringVar(&p.laterality, "laterality", "", "Laterality, depends on the position")
}

// apply copies the flags into the form through its setters so dependent
// choices are recomputed. With onlyChanged, untouched flags keep the form value.
func (p *playerFields) apply(form *squad.PlayerForm, flags *pflag.FlagSet, onlyChanged bool) error {
	set := func(name string) bool {
		return !onlyChanged || flags.Changed(name)
	}

	if set("name") {
		form.Name = p.name
	}
	if set("surname") {
		form.Surname = p.surname
	}
	if set("nickname") {
		form.Nickname = p.nickname
	}
	if set("birth-date") && p.birthDate != "" {
		birth, err := time.Parse(birthDateLayout, p.birthDate)
		if err != nil {
			return fmt.Errorf("--birth-date must be YYYY-MM-DD")
		}
		form.SetBirthDate(birth)
	}
	if set("nationality") {
		form.Nationality = p.nationality
	}
	if set("number") {
		form.Number = p.number
	}
	if set("position") {
		form.SetPosition(p.position)
	}
	if set("laterality") {
		form.Laterality = p.laterality
	}
	return nil
}

// openForm loads the Add Player form for user, bound to the team the user
// may work on.
func openForm(a *app, cmd *cobra.Command, user *session.User, teamID int) (*squad.PlayerForm, error) {
	form := squad.NewPlayerForm(a.api, a.api, a.clock, squad.Operator{Role: user.Role, TeamID: user.TeamID})

	if err := form.Load(cmd.Context()); err != nil {
		if errors.Is(err, squad.ErrNoTeam) {
			return nil, errors.New("no team is assigned to your account")
		}
		return nil, a.fail("could not load the roster", err)
	}

	if !user.Role.Can(models.CapSelectAnyTeam) {
		if teamID != 0 && teamID != form.TeamID {
			return nil, fmt.Errorf("you can only manage players of team %d", form.TeamID)
		}
		return form, nil
	}

	if teamID == 0 {
		return nil, errors.New("--team is required for administrators")
	}
	if err := form.SelectTeam(cmd.Context(), teamID); err != nil {
		if errors.Is(err, squad.ErrUnknownTeam) {
			return nil, fmt.Errorf("team %d not found", teamID)
		}
		return nil, a.fail("could not load the roster", err)
	}
	return form, nil
}

func submit(a *app, cmd *cobra.Command, form *squad.PlayerForm) error {
	player, err := form.Submit(cmd.Context())
	if err != nil {
		var fieldErrs squad.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return fieldErrs
		}
		return a.fail("could not save the player", err)
	}

	out := a.out(cmd)
	out.Print(player)
	out.PrintMessage("Player saved")
	return nil
}

func playerIndex(form *squad.PlayerForm, arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid player id %q", arg)
	}
	index := form.IndexOf(id)
	if index < 0 {
		return 0, fmt.Errorf("player %d is not in team %d", id, form.TeamID)
	}
	return index, nil
}

func newPlayerListCmd(a *app) *cobra.Command {
	var teamID int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the roster of a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok, err := a.enter(cmd, access.PathAddPlayer)
			if !ok || err != nil {
				return err
			}
			form, err := openForm(a, cmd, user, teamID)
			if err != nil {
				return err
			}
			a.out(cmd).Print(form.Roster)
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 0, "Team id (administrators)")
	return cmd
}

func newPlayerAddCmd(a *app) *cobra.Command {
	var fields playerFields

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a player to a team",
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok, err := a.enter(cmd, access.PathAddPlayer)
			if !ok || err != nil {
				return err
			}
			// без флага форма оставила бы сегодняшнюю дату
			if err := requireFlags(map[string]string{"birth-date": fields.birthDate}); err != nil {
				return err
			}
			form, err := openForm(a, cmd, user, fields.team)
			if err != nil {
				return err
			}
			if err := fields.apply(form, cmd.Flags(), false); err != nil {
				return err
			}
			return submit(a, cmd, form)
		},
	}

	cmd.Flags().IntVar(&fields.team, "team", 0, "Team id (administrators)")
	fields.bind(cmd.Flags())
	cmd.Flags().Lookup("birth-date").Usage = "Birth date, YYYY-MM-DD (required)"
	return cmd
}

func newPlayerEditCmd(a *app) *cobra.Command {
	var fields playerFields

	cmd := &cobra.Command{
		Use:   "edit <player-id>",
		Short: "Edit a player; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok, err := a.enter(cmd, access.PathAddPlayer)
			if !ok || err != nil {
				return err
			}
			form, err := openForm(a, cmd, user, fields.team)
			if err != nil {
				return err
			}
			index, err := playerIndex(form, args[0])
			if err != nil {
				return err
			}
			if err := form.Edit(index); err != nil {
				return err
			}
			if err := fields.apply(form, cmd.Flags(), true); err != nil {
				return err
			}
			return submit(a, cmd, form)
		},
	}

	cmd.Flags().IntVar(&fields.team, "team", 0, "Team id (administrators)")
	fields.bind(cmd.Flags())
	return cmd
}

func newPlayerRemoveCmd(a *app) *cobra.Command {
	var teamID int

	cmd := &cobra.Command{
		Use:   "remove <player-id>",
		Short: "Remove a player from a team",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, ok, err := a.enter(cmd, access.PathAddPlayer)
			if !ok || err != nil {
				return err
			}
			form, err := openForm(a, cmd, user, teamID)
			if err != nil {
				return err
			}
			index, err := playerIndex(form, args[0])
			if err != nil {
				return err
			}
			if err := form.Remove(cmd.Context(), index); err != nil {
				return a.fail("could not remove the player", err)
			}
			a.out(cmd).PrintMessage("Player removed")
			return nil
		},
	}

	cmd.Flags().IntVar(&teamID, "team", 0, "Team id (administrators)")
	return cmd
}
