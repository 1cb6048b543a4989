package squad

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
)

var (
	ErrTeamSelectionForbidden = errors.New("only administrators can choose the team")
	ErrUnknownTeam            = errors.New("team is not available in this form")
	ErrNoTeam                 = errors.New("operator has no team assigned")
	ErrRosterIndex            = errors.New("roster index out of range")
)

// PlayerStore is where the form reads the roster from and writes players to.
type PlayerStore interface {
	ListByTeam(ctx context.Context, teamID int) ([]models.Player, error)
	Create(ctx context.Context, player *models.Player) error
	Update(ctx context.Context, player *models.Player) error
	Delete(ctx context.Context, playerID int) error
}

type TeamSource interface {
	ListTeams(ctx context.Context) ([]models.Team, error)
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
}

// Operator is the signed-in user filling the form.
type Operator struct {
	Role   models.UserRole
	TeamID *int
}

// PlayerForm is the Add Player form. Every setter recomputes the fields that
// depend on it before returning.
type PlayerForm struct {
	players  PlayerStore
	teams    TeamSource
	clock    clock.Clock
	operator Operator

	Teams             []models.Team
	TeamID            int
	Discipline        models.Discipline
	Positions         []string
	LateralityOptions []string

	Name        string
	Surname     string
	Nickname    string
	BirthDate   time.Time
	Age         int
	Nationality string
	Number      int
	Position    string
	Laterality  string

	Roster []models.Player

	editingID    int
	editingIndex int
}

func NewPlayerForm(players PlayerStore, teams TeamSource, clk clock.Clock, op Operator) *PlayerForm {
	f := &PlayerForm{
		players:  players,
		teams:    teams,
		clock:    clk,
		operator: op,
	}
	f.CancelEdit()
	f.resetEntry()
	return f
}

// Load fills the team choices. Administrators pick from every team; other
// operators are bound to their own team, whose roster is loaded right away.
func (f *PlayerForm) Load(ctx context.Context) error {
	if f.operator.Role.Can(models.CapSelectAnyTeam) {
		teams, err := f.teams.ListTeams(ctx)
		if err != nil {
			return fmt.Errorf("failed to load teams: %w", err)
		}
		f.Teams = teams
		return nil
	}

	if f.operator.TeamID == nil {
		return ErrNoTeam
	}
	team, err := f.teams.GetTeam(ctx, *f.operator.TeamID)
	if err != nil {
		return fmt.Errorf("failed to load team %d: %w", *f.operator.TeamID, err)
	}
	f.Teams = []models.Team{*team}
	return f.applyTeam(ctx, *team)
}

// SelectTeam switches the form to another team (administrators only). The
// discipline follows the team, the entry fields reset and the roster reloads.
func (f *PlayerForm) SelectTeam(ctx context.Context, teamID int) error {
	if !f.operator.Role.Can(models.CapSelectAnyTeam) {
		return ErrTeamSelectionForbidden
	}
	for _, team := range f.Teams {
		if team.ID == teamID {
			return f.applyTeam(ctx, team)
		}
	}
	return ErrUnknownTeam
}

func (f *PlayerForm) applyTeam(ctx context.Context, team models.Team) error {
	f.TeamID = team.ID
	f.SetDiscipline(team.Discipline)
	f.CancelEdit()
	f.resetEntry()
	f.Roster = nil

	roster, err := f.players.ListByTeam(ctx, team.ID)
	if err != nil {
		return fmt.Errorf("failed to load roster for team %d: %w", team.ID, err)
	}
	f.Roster = roster
	return nil
}

func (f *PlayerForm) SetDiscipline(d models.Discipline) {
	f.Discipline = d
	f.Positions = DeriveOptions(d)
	if !contains(f.Positions, f.Position) {
		f.SetPosition("")
	}
}

func (f *PlayerForm) SetPosition(position string) {
	f.Position = position
	f.LateralityOptions = DeriveLaterality(position)
	if !contains(f.LateralityOptions, f.Laterality) {
		f.Laterality = ""
	}
}

func (f *PlayerForm) SetBirthDate(birth time.Time) {
	f.BirthDate = birth
	f.Age = ComputeAge(birth, f.clock.Now())
}

// LateralityApplicable reports whether the current position takes a laterality.
func (f *PlayerForm) LateralityApplicable() bool {
	return len(f.LateralityOptions) > 0
}

// Edit loads the roster row at index into the form; the next Submit updates it.
func (f *PlayerForm) Edit(index int) error {
	if index < 0 || index >= len(f.Roster) {
		return ErrRosterIndex
	}
	p := f.Roster[index]

	f.Name = p.Name
	f.Surname = p.Surname
	f.Nickname = p.Nickname
	f.SetBirthDate(p.BirthDate)
	f.Nationality = p.Nationality
	f.Number = p.Number
	f.SetPosition(p.Position)
	f.Laterality = p.Laterality

	f.editingID = p.ID
	f.editingIndex = index
	return nil
}

func (f *PlayerForm) CancelEdit() {
	f.editingID = 0
	f.editingIndex = -1
}

// Editing returns the id of the player being edited, if any.
func (f *PlayerForm) Editing() (int, bool) {
	return f.editingID, f.editingID != 0
}

// Validate checks the current field values.
func (f *PlayerForm) Validate() error {
	if f.TeamID == 0 {
		return ValidationErrors{"team": "must be selected"}
	}
	p := f.player()
	return ValidatePlayer(&p, f.Discipline, f.clock.Now())
}

// Submit creates a new player, or updates the one being edited in place, and
// mirrors the result into the roster.
func (f *PlayerForm) Submit(ctx context.Context) (*models.Player, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	p := f.player()

	if f.editingID != 0 {
		p.ID = f.editingID
		if err := f.players.Update(ctx, &p); err != nil {
			return nil, fmt.Errorf("failed to update player %d: %w", p.ID, err)
		}
		p.Age = ComputeAge(p.BirthDate, f.clock.Now())
		f.Roster[f.editingIndex] = p
	} else {
		if err := f.players.Create(ctx, &p); err != nil {
			return nil, fmt.Errorf("failed to create player: %w", err)
		}
		p.Age = ComputeAge(p.BirthDate, f.clock.Now())
		f.Roster = append(f.Roster, p)
	}

	f.CancelEdit()
	f.resetEntry()
	return &p, nil
}

// Remove deletes the roster row at index from the store and from the roster.
func (f *PlayerForm) Remove(ctx context.Context, index int) error {
	if index < 0 || index >= len(f.Roster) {
		return ErrRosterIndex
	}
	id := f.Roster[index].ID
	if err := f.players.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete player %d: %w", id, err)
	}

	roster := make([]models.Player, 0, len(f.Roster)-1)
	roster = append(roster, f.Roster[:index]...)
	f.Roster = append(roster, f.Roster[index+1:]...)

	switch {
	case f.editingID == id:
		f.CancelEdit()
		f.resetEntry()
	case f.editingID != 0 && index < f.editingIndex:
		f.editingIndex--
	}
	return nil
}

// IndexOf returns the roster index of the player with the given id, or -1.
func (f *PlayerForm) IndexOf(playerID int) int {
	for i, p := range f.Roster {
		if p.ID == playerID {
			return i
		}
	}
	return -1
}

func (f *PlayerForm) player() models.Player {
	return models.Player{
		TeamID:      f.TeamID,
		Name:        f.Name,
		Surname:     f.Surname,
		Nickname:    f.Nickname,
		BirthDate:   f.BirthDate,
		Nationality: f.Nationality,
		Number:      f.Number,
		Position:    f.Position,
		Laterality:  f.Laterality,
	}
}

// resetEntry puts the per-player fields back to their defaults. The birth
// date defaults to today.
func (f *PlayerForm) resetEntry() {
	f.Name = ""
	f.Surname = ""
	f.Nickname = ""
	f.Number = 0
	f.Laterality = ""
	f.SetPosition("")
	f.SetBirthDate(f.clock.Now())
}
