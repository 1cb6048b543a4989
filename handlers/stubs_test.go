package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/Dosada05/club-admin/middleware"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/services"
	"github.com/Dosada05/club-admin/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intRef(v int) *int { return &v }

// withUser подкладывает identity и пользователя в контекст запроса, как это делает Authenticate.
func withUser(r *http.Request, user *session.User) *http.Request {
	if user == nil {
		return r
	}
	ctx := middleware.WithIdentity(r.Context(), &models.Identity{UID: user.UID, Email: user.Email})
	return r.WithContext(middleware.WithUser(ctx, user))
}

// withIdentity: только проверенный токен, как после Identify.
func withIdentity(r *http.Request, identity models.Identity) *http.Request {
	return r.WithContext(middleware.WithIdentity(r.Context(), &identity))
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

var (
	adminUser = &session.User{UID: 1, Email: "admin@club.test", Role: models.RoleAdmin}
	opUser    = &session.User{UID: 2, Email: "op@club.test", Role: models.RoleOp, TeamID: intRef(7)}
)

type stubAuthService struct {
	register func(services.RegisterInput) (*models.Profile, error)
	login    func(services.LoginInput) (*services.AuthToken, error)
	logout   func(token string) error
}

func (s *stubAuthService) Register(_ context.Context, in services.RegisterInput) (*models.Profile, error) {
	return s.register(in)
}

func (s *stubAuthService) Login(_ context.Context, in services.LoginInput) (*services.AuthToken, error) {
	return s.login(in)
}

func (s *stubAuthService) Logout(_ context.Context, token string) error {
	return s.logout(token)
}

func (s *stubAuthService) Verify(context.Context, string) (*models.Identity, error) {
	return nil, services.ErrAuthenticationFailed
}

type stubUserService struct {
	profiles   map[int]models.Profile
	profileFor func(actor *session.User, uid int) (*models.Profile, error)
	list       func() ([]models.Profile, error)
	options    func() (*services.AssignmentOptions, error)
	assign     func(uid int, in services.AssignRoleInput) (*models.Profile, error)
}

func (s *stubUserService) GetProfile(_ context.Context, uid int) (*models.Profile, error) {
	profile, ok := s.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("%w: %w", services.ErrUserNotFound, session.ErrProfileNotFound)
	}
	return &profile, nil
}

func (s *stubUserService) GetProfileFor(_ context.Context, actor *session.User, uid int) (*models.Profile, error) {
	return s.profileFor(actor, uid)
}

func (s *stubUserService) ListUsers(context.Context) ([]models.Profile, error) {
	return s.list()
}

func (s *stubUserService) AssignmentOptions(context.Context) (*services.AssignmentOptions, error) {
	return s.options()
}

func (s *stubUserService) AssignRole(_ context.Context, uid int, in services.AssignRoleInput) (*models.Profile, error) {
	return s.assign(uid, in)
}

type stubTeamService struct {
	create func(services.CreateTeamInput) (*models.Team, error)
	get    func(id int) (*models.Team, error)
	list   func() ([]models.Team, error)
	upload func(id int, body []byte, contentType string) (*models.Team, error)
}

func (s *stubTeamService) CreateTeam(_ context.Context, in services.CreateTeamInput) (*models.Team, error) {
	return s.create(in)
}

func (s *stubTeamService) GetTeam(_ context.Context, id int) (*models.Team, error) {
	return s.get(id)
}

func (s *stubTeamService) ListTeams(context.Context) ([]models.Team, error) {
	return s.list()
}

func (s *stubTeamService) UploadLogo(_ context.Context, id int, file io.Reader, contentType string) (*models.Team, error) {
	body, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	return s.upload(id, body, contentType)
}

type stubPlayerService struct {
	list   func(actor *session.User, teamID int) ([]models.Player, error)
	create func(actor *session.User, teamID int, in services.PlayerInput) (*models.Player, error)
	update func(actor *session.User, playerID int, in services.PlayerInput) (*models.Player, error)
	remove func(actor *session.User, playerID int) error
}

func (s *stubPlayerService) ListByTeam(_ context.Context, actor *session.User, teamID int) ([]models.Player, error) {
	return s.list(actor, teamID)
}

func (s *stubPlayerService) Create(_ context.Context, actor *session.User, teamID int, in services.PlayerInput) (*models.Player, error) {
	return s.create(actor, teamID, in)
}

func (s *stubPlayerService) Update(_ context.Context, actor *session.User, playerID int, in services.PlayerInput) (*models.Player, error) {
	return s.update(actor, playerID, in)
}

func (s *stubPlayerService) Delete(_ context.Context, actor *session.User, playerID int) error {
	return s.remove(actor, playerID)
}

type stubCountryService struct {
	search func(q string) ([]models.Country, error)
}

func (s *stubCountryService) Search(_ context.Context, q string) ([]models.Country, error) {
	return s.search(q)
}

// serve прогоняет запрос через chi, чтобы работали URL-параметры.
func serve(method, pattern string, h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := chi.NewRouter()
	router.MethodFunc(method, pattern, h)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}
