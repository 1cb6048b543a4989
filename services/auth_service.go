package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Dosada05/club-admin/clock"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/repositories"
	"github.com/Dosada05/club-admin/utils"
)

const (
	MinPasswordLength = 6

	claimUserID = "user_id"
	claimEmail  = "email"
	claimJTI    = "jti"
)

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.Profile, error)
	Login(ctx context.Context, input LoginInput) (*AuthToken, error)
	Logout(ctx context.Context, token string) error
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthToken struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  models.Identity `json:"identity"`
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type authService struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	cfg         AuthConfig
	clock       clock.Clock
	logger      *slog.Logger
}

func NewAuthService(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	cfg AuthConfig,
	clk clock.Clock,
	logger *slog.Logger,
) AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = utils.BcryptCost
	}
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		cfg:         cfg,
		clock:       clk,
		logger:      logger,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.Profile, error) {
	input.Email = normalizeEmail(input.Email)

	errs := ValidationError{}
	if !utils.IsValidEmail(input.Email) {
		errs["email"] = "must be a valid email address"
	}
	if len(input.Password) < MinPasswordLength {
		errs["password"] = fmt.Sprintf("must be at least %d characters long", MinPasswordLength)
	}
	if len(errs) > 0 {
		return nil, errs
	}

	hashedPassword, err := utils.HashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка хеширования пароля: %w", err)
	}

	profile := &models.Profile{
		Email:     input.Email,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Phone:     strings.TrimSpace(input.Phone),
		Role:      models.RolePlayer,
	}

	if err := s.userRepo.Create(ctx, profile, hashedPassword); err != nil {
		if errors.Is(err, repositories.ErrUserEmailConflict) {
			return nil, ErrUserEmailConflict
		}
		return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	s.logger.Info("user registered", slog.Int("user_id", profile.UID))
	return profile, nil
}

// Login выдаёт токен. Любая причина отказа сводится к ErrInvalidCredentials.
func (s *authService) Login(ctx context.Context, input LoginInput) (*AuthToken, error) {
	creds, err := s.userRepo.GetCredentialsByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	match, err := utils.CheckPasswordHash(input.Password, creds.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to compare password hash: %w", err)
	}
	if !match {
		return nil, ErrInvalidCredentials
	}

	now := s.clock.Now()
	expiresAt := now.Add(s.cfg.TokenTTL)
	jti := uuid.NewString()

	claims := jwt.MapClaims{
		claimUserID: creds.UID,
		claimEmail:  creds.Email,
		claimJTI:    jti,
		"exp":       expiresAt.Unix(),
		"iat":       now.Unix(),
	}
	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := s.sessionRepo.Save(ctx, jti, creds.UID, s.cfg.TokenTTL); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	return &AuthToken{
		Token:     tokenString,
		ExpiresAt: expiresAt,
		Identity:  models.Identity{UID: creds.UID, Email: creds.Email},
	}, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	jti, _ := claims[claimJTI].(string)
	if err := s.sessionRepo.Revoke(ctx, jti); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrAuthenticationFailed
		}
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// Verify проверяет подпись и срок токена, а также что сессия не отозвана.
func (s *authService) Verify(ctx context.Context, token string) (*models.Identity, error) {
	claims, err := s.parse(token)
	if err != nil {
		return nil, err
	}

	userID, err := userIDFromClaims(claims)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	jti, _ := claims[claimJTI].(string)
	email, _ := claims[claimEmail].(string)

	storedID, err := s.sessionRepo.Lookup(ctx, jti)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if storedID != userID {
		return nil, ErrAuthenticationFailed
	}

	return &models.Identity{UID: userID, Email: email}, nil
}

func (s *authService) parse(tokenString string) (jwt.MapClaims, error) {
	if tokenString == "" {
		return nil, ErrAuthenticationFailed
	}
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrAuthenticationFailed
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrAuthenticationFailed
	}
	if jti, _ := claims[claimJTI].(string); jti == "" {
		return nil, ErrAuthenticationFailed
	}
	return claims, nil
}

func userIDFromClaims(claims jwt.MapClaims) (int, error) {
	raw, ok := claims[claimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", claimUserID)
	}
	idFloat, ok := raw.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: %T", claimUserID, raw)
	}
	if idFloat != float64(int(idFloat)) || idFloat <= 0 {
		return 0, fmt.Errorf("invalid '%s' claim value: %v", claimUserID, idFloat)
	}
	return int(idFloat), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
