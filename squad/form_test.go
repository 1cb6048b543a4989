package squad

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
)

type fakeStore struct {
	players   map[int][]models.Player
	nextID    int
	listCalls []int
	created   []models.Player
	updated   []models.Player
	deleted   []int
	failWith  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{players: map[int][]models.Player{}, nextID: 100}
}

func (s *fakeStore) ListByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	s.listCalls = append(s.listCalls, teamID)
	if s.failWith != nil {
		return nil, s.failWith
	}
	out := make([]models.Player, len(s.players[teamID]))
	copy(out, s.players[teamID])
	return out, nil
}

func (s *fakeStore) Create(_ context.Context, p *models.Player) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.nextID++
	p.ID = s.nextID
	s.created = append(s.created, *p)
	return nil
}

func (s *fakeStore) Update(_ context.Context, p *models.Player) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.updated = append(s.updated, *p)
	return nil
}

func (s *fakeStore) Delete(_ context.Context, id int) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.deleted = append(s.deleted, id)
	return nil
}

type fakeTeams []models.Team

func (t fakeTeams) ListTeams(context.Context) ([]models.Team, error) {
	return t, nil
}

func (t fakeTeams) GetTeam(_ context.Context, id int) (*models.Team, error) {
	for _, team := range t {
		if team.ID == id {
			return &team, nil
		}
	}
	return nil, errors.New("not found")
}

type PlayerFormSuite struct {
	suite.Suite
	store *fakeStore
	teams fakeTeams
	clock clock.Fixed
	ctx   context.Context
}

func TestPlayerFormSuite(t *testing.T) {
	suite.Run(t, new(PlayerFormSuite))
}

func (s *PlayerFormSuite) SetupTest() {
	s.store = newFakeStore()
	s.teams = fakeTeams{
		{ID: 1, Name: "Atlético Norte", Discipline: models.DisciplineFootball11},
		{ID: 2, Name: "Sala Sur", Discipline: models.DisciplineFutsal},
	}
	s.store.players[1] = []models.Player{
		{ID: 11, TeamID: 1, Name: "Ana", Surname: "Ruiz", Number: 1, Position: "Portero", Nationality: "España",
			BirthDate: time.Date(1998, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{ID: 12, TeamID: 1, Name: "Eva", Surname: "Sanz", Number: 7, Position: "Extremo", Laterality: "Derecho", Nationality: "Chile",
			BirthDate: time.Date(2001, time.October, 20, 0, 0, 0, 0, time.UTC)},
	}
	s.store.players[2] = []models.Player{
		{ID: 21, TeamID: 2, Name: "Iria", Surname: "Vidal", Number: 4, Position: "Cierre", Nationality: "España",
			BirthDate: time.Date(1995, time.January, 9, 0, 0, 0, 0, time.UTC)},
	}
	s.clock = clock.Fixed(time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC))
	s.ctx = context.Background()
}

func (s *PlayerFormSuite) adminForm() *PlayerForm {
	f := NewPlayerForm(s.store, s.teams, s.clock, Operator{Role: models.RoleAdmin})
	s.Require().NoError(f.Load(s.ctx))
	return f
}

func (s *PlayerFormSuite) fillValid(f *PlayerForm) {
	f.Name = "Marta"
	f.Surname = "López"
	f.Nationality = "Argentina"
	f.Number = 9
	f.SetBirthDate(time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC))
	f.SetPosition(f.Positions[0])
}

func (s *PlayerFormSuite) TestNewFormDefaults() {
	f := NewPlayerForm(s.store, s.teams, s.clock, Operator{Role: models.RoleAdmin})
	s.Equal(s.clock.Now(), f.BirthDate)
	s.Equal(0, f.Age)
	s.Empty(f.Positions)
	s.Empty(f.LateralityOptions)
	_, editing := f.Editing()
	s.False(editing)
}

func (s *PlayerFormSuite) TestAdminLoadListsTeamsWithoutRoster() {
	f := s.adminForm()
	s.Len(f.Teams, 2)
	s.Zero(f.TeamID)
	s.Empty(s.store.listCalls)
}

func (s *PlayerFormSuite) TestNonAdminLoadBindsOwnTeam() {
	teamID := 2
	f := NewPlayerForm(s.store, s.teams, s.clock, Operator{Role: models.RoleOp, TeamID: &teamID})
	s.Require().NoError(f.Load(s.ctx))

	s.Equal(2, f.TeamID)
	s.Equal(models.DisciplineFutsal, f.Discipline)
	s.Equal([]string{"Portero", "Cierre", "Ala", "Pívot"}, f.Positions)
	s.Len(f.Roster, 1)
	s.ErrorIs(f.SelectTeam(s.ctx, 1), ErrTeamSelectionForbidden)
}

func (s *PlayerFormSuite) TestNonAdminWithoutTeamCannotLoad() {
	f := NewPlayerForm(s.store, s.teams, s.clock, Operator{Role: models.RoleStaff})
	s.ErrorIs(f.Load(s.ctx), ErrNoTeam)
}

func (s *PlayerFormSuite) TestFutsalPositionsAndAlaHasNoLaterality() {
	f := s.adminForm()
	f.SetDiscipline(models.DisciplineFutsal)
	s.Equal([]string{"Portero", "Cierre", "Ala", "Pívot"}, f.Positions)

	f.SetPosition("Ala")
	s.Empty(f.LateralityOptions)
	s.False(f.LateralityApplicable())
}

func (s *PlayerFormSuite) TestPositionChangeDropsInvalidLaterality() {
	f := s.adminForm()
	f.SetDiscipline(models.DisciplineFootball11)
	f.SetPosition("Lateral")
	f.Laterality = "Izquierdo"

	f.SetPosition("Extremo")
	s.Equal("Izquierdo", f.Laterality)

	f.SetPosition("Centrocampista")
	s.Empty(f.Laterality)
	s.Equal([]string{"Defensivo", "Ofensivo", "Pivote"}, f.LateralityOptions)
}

func (s *PlayerFormSuite) TestDisciplineChangeDropsInvalidPosition() {
	f := s.adminForm()
	f.SetDiscipline(models.DisciplineFootball11)
	f.SetPosition("Extremo")
	f.Laterality = "Derecho"

	f.SetDiscipline(models.DisciplineFutsal)
	s.Empty(f.Position)
	s.Empty(f.Laterality)
	s.Empty(f.LateralityOptions)
}

func (s *PlayerFormSuite) TestBirthDateComputesAge() {
	f := s.adminForm()
	f.SetBirthDate(time.Date(2000, time.June, 16, 0, 0, 0, 0, time.UTC))
	s.Equal(23, f.Age)
	f.SetBirthDate(time.Date(2000, time.June, 15, 0, 0, 0, 0, time.UTC))
	s.Equal(24, f.Age)
}

func (s *PlayerFormSuite) TestSelectTeamResetsFieldsAndReloadsRoster() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.Len(f.Roster, 2)

	s.fillValid(f)
	f.Nickname = "La Pulga"
	f.SetPosition("Lateral")
	f.Laterality = "Izquierdo"

	s.Require().NoError(f.SelectTeam(s.ctx, 2))

	s.Equal(2, f.TeamID)
	s.Equal(models.DisciplineFutsal, f.Discipline)
	s.Empty(f.Name)
	s.Empty(f.Surname)
	s.Empty(f.Nickname)
	s.Equal(s.clock.Now(), f.BirthDate)
	s.Zero(f.Number)
	s.Empty(f.Position)
	s.Empty(f.Laterality)
	s.Equal("Argentina", f.Nationality)
	s.Equal([]int{1, 2}, s.store.listCalls)
	s.Require().Len(f.Roster, 1)
	s.Equal(21, f.Roster[0].ID)
}

func (s *PlayerFormSuite) TestSelectUnknownTeam() {
	f := s.adminForm()
	s.ErrorIs(f.SelectTeam(s.ctx, 99), ErrUnknownTeam)
}

func (s *PlayerFormSuite) TestSelectTeamRosterFailure() {
	f := s.adminForm()
	s.store.failWith = errors.New("store down")
	s.Error(f.SelectTeam(s.ctx, 1))
	s.Empty(f.Roster)
}

func (s *PlayerFormSuite) TestSubmitWithoutTeamFails() {
	f := s.adminForm()
	var verrs ValidationErrors
	_, err := f.Submit(s.ctx)
	s.Require().ErrorAs(err, &verrs)
	s.Contains(verrs, "team")
	s.Empty(s.store.created)
}

func (s *PlayerFormSuite) TestSubmitCreatesAndAppends() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.fillValid(f)

	p, err := f.Submit(s.ctx)
	s.Require().NoError(err)

	s.Equal(101, p.ID)
	s.Equal(1, p.TeamID)
	s.Equal(24, p.Age)
	s.Require().Len(s.store.created, 1)
	s.Empty(s.store.updated)
	s.Require().Len(f.Roster, 3)
	s.Equal(101, f.Roster[2].ID)
	s.Empty(f.Name)
}

func (s *PlayerFormSuite) TestEditSubmitUpdatesInPlace() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))

	s.Require().NoError(f.Edit(0))
	id, editing := f.Editing()
	s.True(editing)
	s.Equal(11, id)
	s.Equal("Ana", f.Name)

	f.Name = "Ana María"
	f.Number = 13

	p, err := f.Submit(s.ctx)
	s.Require().NoError(err)

	s.Empty(s.store.created)
	s.Require().Len(s.store.updated, 1)
	s.Equal(11, s.store.updated[0].ID)
	s.Equal(11, p.ID)
	s.Require().Len(f.Roster, 2)
	s.Equal("Ana María", f.Roster[0].Name)
	s.Equal(13, f.Roster[0].Number)
	s.Equal(12, f.Roster[1].ID)
	_, editing = f.Editing()
	s.False(editing)
}

func (s *PlayerFormSuite) TestEditKeepsLaterality() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.Require().NoError(f.Edit(1))
	s.Equal("Extremo", f.Position)
	s.Equal("Derecho", f.Laterality)
	s.Equal([]string{"Izquierdo", "Derecho"}, f.LateralityOptions)
}

func (s *PlayerFormSuite) TestEditOutOfRange() {
	f := s.adminForm()
	s.ErrorIs(f.Edit(0), ErrRosterIndex)
}

func (s *PlayerFormSuite) TestSubmitStoreFailureKeepsForm() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.fillValid(f)
	s.store.failWith = errors.New("store down")

	_, err := f.Submit(s.ctx)
	s.Error(err)
	s.Equal("Marta", f.Name)
	s.Len(f.Roster, 2)
}

func (s *PlayerFormSuite) TestRemoveShiftsEditingIndex() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.Require().NoError(f.Edit(1))

	s.Require().NoError(f.Remove(s.ctx, 0))
	s.Equal([]int{11}, s.store.deleted)
	s.Require().Len(f.Roster, 1)

	f.Number = 8
	_, err := f.Submit(s.ctx)
	s.Require().NoError(err)
	s.Equal(8, f.Roster[0].Number)
	s.Equal(12, f.Roster[0].ID)
}

func (s *PlayerFormSuite) TestRemoveEditedPlayerCancelsEdit() {
	f := s.adminForm()
	s.Require().NoError(f.SelectTeam(s.ctx, 1))
	s.Require().NoError(f.Edit(0))
	s.Require().NoError(f.Remove(s.ctx, 0))

	_, editing := f.Editing()
	s.False(editing)
	s.Empty(f.Name)
	s.Equal(-1, f.IndexOf(11))
	s.Equal(0, f.IndexOf(12))
}
