package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/repositories"
	"github.com/Dosada05/club-admin/storage"
)

type TeamService interface {
	CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error)
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
	UploadLogo(ctx context.Context, teamID int, file io.Reader, contentType string) (*models.Team, error)
}

type CreateTeamInput struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Discipline  string `json:"discipline"`
	Description string `json:"description"`
}

type teamService struct {
	teamRepo repositories.TeamRepository
	uploader storage.FileUploader
	logos    *LogoResolver
	logger   *slog.Logger
}

// NewTeamService: uploader может быть nil, тогда загрузка логотипов отключена.
func NewTeamService(teamRepo repositories.TeamRepository, uploader storage.FileUploader, logos *LogoResolver, logger *slog.Logger) TeamService {
	return &teamService{
		teamRepo: teamRepo,
		uploader: uploader,
		logos:    logos,
		logger:   logger,
	}
}

func (s *teamService) CreateTeam(ctx context.Context, input CreateTeamInput) (*models.Team, error) {
	errs := ValidationError{}
	requireNonEmpty(errs, "name", input.Name)
	requireNonEmpty(errs, "country", input.Country)
	discipline := models.Discipline(strings.TrimSpace(input.Discipline))
	if discipline == "" {
		errs["discipline"] = "must be provided"
	} else if !discipline.Valid() {
		errs["discipline"] = "must be one of Fútbol 11, Fútbol 7, Fútbol Sala"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	team := &models.Team{
		Name:       strings.TrimSpace(input.Name),
		Country:    strings.TrimSpace(input.Country),
		Discipline: discipline,
	}
	if desc := strings.TrimSpace(input.Description); desc != "" {
		team.Description = &desc
	}

	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	s.logos.populate(team)

	s.logger.Info("team created", slog.Int("team_id", team.ID), slog.String("discipline", string(team.Discipline)))
	return team, nil
}

func (s *teamService) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	s.logos.populate(team)
	return team, nil
}

func (s *teamService) ListTeams(ctx context.Context) ([]models.Team, error) {
	teams, err := s.teamRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	s.logos.populateAll(teams)
	return teams, nil
}

// UploadLogo кладёт файл в хранилище и сохраняет ключ. Старый объект
// удаляется, если ключ изменился (например, png → jpg).
func (s *teamService) UploadLogo(ctx context.Context, teamID int, file io.Reader, contentType string) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrLogoStorageDisabled
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}

	key, err := storage.TeamLogoKey(teamID, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedLogoType, err)
	}

	if _, err := s.uploader.Upload(ctx, key, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload logo for team %d: %w", teamID, err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &key); err != nil {
		return nil, fmt.Errorf("failed to save logo key for team %d: %w", teamID, err)
	}

	if team.LogoKey != nil && *team.LogoKey != "" && *team.LogoKey != key {
		if err := s.uploader.Delete(ctx, *team.LogoKey); err != nil {
			s.logger.Warn("failed to delete previous team logo",
				slog.Int("team_id", teamID), slog.String("key", *team.LogoKey), slog.Any("error", err))
		}
	}

	team.LogoKey = &key
	s.logos.populate(team)
	return team, nil
}
