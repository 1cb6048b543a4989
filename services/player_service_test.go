package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/realtime"
	"github.com/Dosada05/club-admin/session"
)

type PlayerServiceSuite struct {
	suite.Suite
	players  *fakePlayerRepo
	notifier *fakeNotifier
	svc      PlayerService
	ctx      context.Context

	admin  *session.User
	op     *session.User
	staff  *session.User
	player *session.User
}

func TestPlayerServiceSuite(t *testing.T) {
	suite.Run(t, new(PlayerServiceSuite))
}

func (s *PlayerServiceSuite) SetupTest() {
	teams := newFakeTeamRepo(
		models.Team{ID: 1, Name: "Sala Norte", Discipline: models.DisciplineFutsal},
		models.Team{ID: 2, Name: "Once Sur", Discipline: models.DisciplineFootball11},
	)
	s.players = newFakePlayerRepo(models.Player{
		ID: 10, TeamID: 1, Name: "Iker", Surname: "Sanz", Nationality: "España",
		BirthDate: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC), Number: 1, Position: "Portero",
	})
	s.notifier = &fakeNotifier{}
	today := clock.Fixed(time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC))
	s.svc = NewPlayerService(s.players, teams, s.notifier, today, discardLogger())
	s.ctx = context.Background()

	s.admin = &session.User{UID: 1, Role: models.RoleAdmin}
	s.op = &session.User{UID: 2, Role: models.RoleOp, TeamID: intRef(1)}
	s.staff = &session.User{UID: 3, Role: models.RoleStaff, TeamID: intRef(2)}
	s.player = &session.User{UID: 4, Role: models.RolePlayer, TeamID: intRef(1)}
}

func validInput() PlayerInput {
	return PlayerInput{
		Name: "Leo", Surname: "Ríos", BirthDate: "2001-02-03", Nationality: "Argentina",
		Number: 10, Position: "Ala",
	}
}

func (s *PlayerServiceSuite) TestListComputesAge() {
	players, err := s.svc.ListByTeam(s.ctx, s.op, 1)
	s.Require().NoError(err)
	s.Require().Len(players, 1)
	s.Equal(23, players[0].Age)
}

func (s *PlayerServiceSuite) TestTeamRestrictionForNonAdmins() {
	_, err := s.svc.ListByTeam(s.ctx, s.staff, 1)
	s.ErrorIs(err, ErrForbiddenOperation)

	_, err = s.svc.ListByTeam(s.ctx, s.player, 1)
	s.ErrorIs(err, ErrForbiddenOperation)

	_, err = s.svc.ListByTeam(s.ctx, nil, 1)
	s.ErrorIs(err, ErrAuthenticationFailed)

	_, err = s.svc.ListByTeam(s.ctx, s.admin, 2)
	s.NoError(err)

	_, err = s.svc.ListByTeam(s.ctx, s.admin, 3)
	s.ErrorIs(err, ErrTeamNotFound)
}

func (s *PlayerServiceSuite) TestCreateValidatesAgainstTeamDiscipline() {
	input := validInput()
	input.Position = "Delantero"

	_, err := s.svc.Create(s.ctx, s.op, 1, input)
	var verr ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr, "position")
	s.Empty(s.notifier.events)
}

func (s *PlayerServiceSuite) TestCreateRejectsLateralityForPositionWithoutOptions() {
	input := validInput()
	input.Laterality = "Izquierdo"

	_, err := s.svc.Create(s.ctx, s.op, 1, input)
	var verr ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr, "laterality")
}

func (s *PlayerServiceSuite) TestCreateRejectsBadDate() {
	input := validInput()
	input.BirthDate = "03/02/2001"

	_, err := s.svc.Create(s.ctx, s.op, 1, input)
	var verr ValidationError
	s.Require().ErrorAs(err, &verr)
	s.Contains(verr, "birth_date")
}

func (s *PlayerServiceSuite) TestCreateAllowsDuplicateNumbers() {
	input := validInput()
	input.Number = 1

	created, err := s.svc.Create(s.ctx, s.op, 1, input)
	s.Require().NoError(err)
	s.Equal(500, created.ID)
	s.Equal(1, created.TeamID)
	s.Equal(23, created.Age)

	s.Require().Len(s.notifier.events, 1)
	s.Equal(rosterEvent{TeamID: 1, Type: realtime.EventPlayerCreated, Payload: created}, s.notifier.events[0])
}

func (s *PlayerServiceSuite) TestUpdateKeepsIdentifierAndTeam() {
	input := validInput()
	input.Name = "Iker"
	input.Surname = "Sanz"
	input.Position = "Portero"
	input.Number = 13

	updated, err := s.svc.Update(s.ctx, s.admin, 10, input)
	s.Require().NoError(err)
	s.Equal(10, updated.ID)
	s.Equal(1, updated.TeamID)
	s.Equal(13, updated.Number)
	s.Equal([]string{"update"}, s.players.calls)
	s.Equal(realtime.EventPlayerUpdated, s.notifier.events[0].Type)
}

func (s *PlayerServiceSuite) TestUpdateForbiddenForOtherTeam() {
	_, err := s.svc.Update(s.ctx, s.staff, 10, validInput())
	s.ErrorIs(err, ErrForbiddenOperation)
	s.Empty(s.players.calls)
}

func (s *PlayerServiceSuite) TestUpdateUnknownPlayer() {
	_, err := s.svc.Update(s.ctx, s.admin, 999, validInput())
	s.ErrorIs(err, ErrPlayerNotFound)
}

func (s *PlayerServiceSuite) TestDelete() {
	s.Require().NoError(s.svc.Delete(s.ctx, s.op, 10))
	s.Equal([]string{"delete"}, s.players.calls)
	s.Require().Len(s.notifier.events, 1)
	s.Equal(realtime.EventPlayerDeleted, s.notifier.events[0].Type)

	s.ErrorIs(s.svc.Delete(s.ctx, s.op, 10), ErrPlayerNotFound)
}

func (s *PlayerServiceSuite) TestDeleteForbiddenForPlayerRole() {
	s.ErrorIs(s.svc.Delete(s.ctx, s.player, 10), ErrForbiddenOperation)
}
