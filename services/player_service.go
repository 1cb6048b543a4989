package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/realtime"
	"github.com/Dosada05/club-admin/repositories"
	"github.com/Dosada05/club-admin/session"
	"github.com/Dosada05/club-admin/squad"
)

const DateLayout = "2006-01-02"

type PlayerService interface {
	ListByTeam(ctx context.Context, actor *session.User, teamID int) ([]models.Player, error)
	Create(ctx context.Context, actor *session.User, teamID int, input PlayerInput) (*models.Player, error)
	Update(ctx context.Context, actor *session.User, playerID int, input PlayerInput) (*models.Player, error)
	Delete(ctx context.Context, actor *session.User, playerID int) error
}

// PlayerInput: тело запроса на создание/изменение игрока. BirthDate в формате YYYY-MM-DD.
type PlayerInput struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Nickname    string `json:"nickname"`
	BirthDate   string `json:"birth_date"`
	Nationality string `json:"nationality"`
	Number      int    `json:"number"`
	Position    string `json:"position"`
	Laterality  string `json:"laterality"`
}

// RosterNotifier получает события об изменении состава.
type RosterNotifier interface {
	PublishRoster(teamID int, eventType string, payload any)
}

type playerService struct {
	playerRepo repositories.PlayerRepository
	teamRepo   repositories.TeamRepository
	notifier   RosterNotifier
	clock      clock.Clock
	logger     *slog.Logger
}

func NewPlayerService(
	playerRepo repositories.PlayerRepository,
	teamRepo repositories.TeamRepository,
	notifier RosterNotifier,
	clk clock.Clock,
	logger *slog.Logger,
) PlayerService {
	return &playerService{
		playerRepo: playerRepo,
		teamRepo:   teamRepo,
		notifier:   notifier,
		clock:      clk,
		logger:     logger,
	}
}

// AuthorizeTeam: admin/op/staff управляют игроками, но не-админ только своей командой.
func AuthorizeTeam(actor *session.User, teamID int) error {
	if actor == nil {
		return ErrAuthenticationFailed
	}
	if !actor.Role.Can(models.CapManagePlayers) {
		return ErrForbiddenOperation
	}
	if actor.Role.Can(models.CapSelectAnyTeam) {
		return nil
	}
	if actor.TeamID == nil || *actor.TeamID != teamID {
		return ErrForbiddenOperation
	}
	return nil
}

func (s *playerService) ListByTeam(ctx context.Context, actor *session.User, teamID int) ([]models.Player, error) {
	if err := AuthorizeTeam(actor, teamID); err != nil {
		return nil, err
	}
	if _, err := s.getTeam(ctx, teamID); err != nil {
		return nil, err
	}

	players, err := s.playerRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for team %d: %w", teamID, err)
	}
	fillAges(players, s.clock.Now())
	return players, nil
}

func (s *playerService) Create(ctx context.Context, actor *session.User, teamID int, input PlayerInput) (*models.Player, error) {
	if err := AuthorizeTeam(actor, teamID); err != nil {
		return nil, err
	}
	team, err := s.getTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	player, err := s.buildPlayer(input, team)
	if err != nil {
		return nil, err
	}
	player.TeamID = teamID

	if err := s.playerRepo.Create(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerTeamInvalid) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to create player: %w", err)
	}
	fillAge(player, s.clock.Now())

	s.notify(teamID, realtime.EventPlayerCreated, player)
	return player, nil
}

func (s *playerService) Update(ctx context.Context, actor *session.User, playerID int, input PlayerInput) (*models.Player, error) {
	existing, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeTeam(actor, existing.TeamID); err != nil {
		return nil, err
	}
	team, err := s.getTeam(ctx, existing.TeamID)
	if err != nil {
		return nil, err
	}

	player, err := s.buildPlayer(input, team)
	if err != nil {
		return nil, err
	}
	player.ID = existing.ID
	player.TeamID = existing.TeamID
	player.CreatedAt = existing.CreatedAt

	if err := s.playerRepo.Update(ctx, player); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to update player %d: %w", playerID, err)
	}
	fillAge(player, s.clock.Now())

	s.notify(player.TeamID, realtime.EventPlayerUpdated, player)
	return player, nil
}

func (s *playerService) Delete(ctx context.Context, actor *session.User, playerID int) error {
	existing, err := s.getPlayer(ctx, playerID)
	if err != nil {
		return err
	}
	if err := AuthorizeTeam(actor, existing.TeamID); err != nil {
		return err
	}

	if err := s.playerRepo.Delete(ctx, playerID); err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return ErrPlayerNotFound
		}
		return fmt.Errorf("failed to delete player %d: %w", playerID, err)
	}

	s.notify(existing.TeamID, realtime.EventPlayerDeleted, map[string]int{"id": playerID, "team_id": existing.TeamID})
	return nil
}

func (s *playerService) buildPlayer(input PlayerInput, team *models.Team) (*models.Player, error) {
	player := &models.Player{
		Name:        strings.TrimSpace(input.Name),
		Surname:     strings.TrimSpace(input.Surname),
		Nickname:    strings.TrimSpace(input.Nickname),
		Nationality: strings.TrimSpace(input.Nationality),
		Number:      input.Number,
		Position:    input.Position,
		Laterality:  input.Laterality,
	}

	if input.BirthDate != "" {
		birth, err := time.Parse(DateLayout, input.BirthDate)
		if err != nil {
			return nil, ValidationError{"birth_date": "must be a date in YYYY-MM-DD format"}
		}
		player.BirthDate = birth
	}

	if err := squad.ValidatePlayer(player, team.Discipline, s.clock.Now()); err != nil {
		var verrs squad.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, ValidationError(verrs)
		}
		return nil, err
	}
	return player, nil
}

func (s *playerService) getTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	return team, nil
}

func (s *playerService) getPlayer(ctx context.Context, playerID int) (*models.Player, error) {
	player, err := s.playerRepo.GetByID(ctx, playerID)
	if err != nil {
		if errors.Is(err, repositories.ErrPlayerNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player %d: %w", playerID, err)
	}
	return player, nil
}

func (s *playerService) notify(teamID int, eventType string, payload any) {
	if s.notifier == nil {
		return
	}
	s.notifier.PublishRoster(teamID, eventType, payload)
	s.logger.Debug("roster event published", slog.Int("team_id", teamID), slog.String("type", eventType))
}
