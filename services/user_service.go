package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/repositories"
	"github.com/Dosada05/club-admin/session"
)

type UserService interface {
	// GetProfile отдаёт профиль по uid; если профиля нет, возвращает session.ErrProfileNotFound.
	GetProfile(ctx context.Context, uid int) (*models.Profile, error)
	GetProfileFor(ctx context.Context, actor *session.User, uid int) (*models.Profile, error)
	ListUsers(ctx context.Context) ([]models.Profile, error)
	AssignmentOptions(ctx context.Context) (*AssignmentOptions, error)
	AssignRole(ctx context.Context, uid int, input AssignRoleInput) (*models.Profile, error)
}

type AssignRoleInput struct {
	Role   string `json:"role"`
	TeamID *int   `json:"team_id"`
}

// AssignmentOptions: всё, что нужно форме назначения ролей.
type AssignmentOptions struct {
	Users []models.Profile  `json:"users"`
	Teams []models.Team     `json:"teams"`
	Roles []models.UserRole `json:"roles"`
}

type userService struct {
	userRepo repositories.UserRepository
	teamRepo repositories.TeamRepository
	logos    *LogoResolver
}

func NewUserService(userRepo repositories.UserRepository, teamRepo repositories.TeamRepository, logos *LogoResolver) UserService {
	return &userService{
		userRepo: userRepo,
		teamRepo: teamRepo,
		logos:    logos,
	}
}

var _ session.ProfileFetcher = (*userService)(nil)

func (s *userService) GetProfile(ctx context.Context, uid int) (*models.Profile, error) {
	profile, err := s.userRepo.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", ErrUserNotFound, session.ErrProfileNotFound)
		}
		return nil, fmt.Errorf("failed to get profile %d: %w", uid, err)
	}
	return profile, nil
}

// GetProfileFor: свой профиль доступен всем, чужой только администратору.
func (s *userService) GetProfileFor(ctx context.Context, actor *session.User, uid int) (*models.Profile, error) {
	if actor == nil {
		return nil, ErrAuthenticationFailed
	}
	if actor.UID != uid && !actor.Role.Can(models.CapAssignRoles) {
		return nil, ErrForbiddenOperation
	}
	return s.GetProfile(ctx, uid)
}

func (s *userService) ListUsers(ctx context.Context) ([]models.Profile, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// AssignmentOptions загружает пользователей и команды параллельно.
func (s *userService) AssignmentOptions(ctx context.Context) (*AssignmentOptions, error) {
	var opts AssignmentOptions
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		users, err := s.userRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		opts.Users = users
		return nil
	})
	g.Go(func() error {
		teams, err := s.teamRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list teams: %w", err)
		}
		s.logos.populateAll(teams)
		opts.Teams = teams
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	opts.Roles = append([]models.UserRole(nil), models.Roles...)
	return &opts, nil
}

// AssignRole меняет роль и команду пользователя. Команда обязательна для всех
// ролей, кроме admin.
func (s *userService) AssignRole(ctx context.Context, uid int, input AssignRoleInput) (*models.Profile, error) {
	errs := ValidationError{}
	role, err := models.ParseRole(input.Role)
	if err != nil {
		errs["role"] = "must be one of admin, op, staff, player"
	}
	if input.TeamID == nil && role != models.RoleAdmin {
		errs["team_id"] = "must be provided"
	}
	if len(errs) > 0 {
		return nil, errs
	}

	err = s.userRepo.UpdateAssignment(ctx, uid, role, input.TeamID)
	switch {
	case errors.Is(err, repositories.ErrUserNotFound):
		return nil, ErrUserNotFound
	case errors.Is(err, repositories.ErrUserTeamInvalid):
		return nil, ValidationError{"team_id": "team does not exist"}
	case err != nil:
		return nil, fmt.Errorf("failed to assign role to user %d: %w", uid, err)
	}

	return s.GetProfile(ctx, uid)
}
