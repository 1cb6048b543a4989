// Package client talks to the club-admin JSON API on behalf of clubctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

const dateLayout = "2006-01-02"

var (
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("not allowed for the current user")
	ErrNotFound     = errors.New("resource not found")
)

// APIError: ответ сервера с кодом >= 400. Fields заполнено для 422.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for field, msg := range e.Fields {
			parts = append(parts, field+": "+msg)
		}
		return fmt.Sprintf("HTTP %d: %s", e.Status, strings.Join(parts, "; "))
	}
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return nil
	}
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	baseURL    string
	httpClient httpDoer

	mu    sync.RWMutex
	token string
}

func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type LoginResult struct {
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
	Identity  models.Identity `json:"identity"`
}

type CreateTeamRequest struct {
	Name        string `json:"name"`
	Country     string `json:"country"`
	Discipline  string `json:"discipline"`
	Description string `json:"description,omitempty"`
}

type AssignmentOptions struct {
	Users []models.Profile  `json:"users"`
	Teams []models.Team     `json:"teams"`
	Roles []models.UserRole `json:"roles"`
}

type playerRequest struct {
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Nickname    string `json:"nickname"`
	BirthDate   string `json:"birth_date"`
	Nationality string `json:"nationality"`
	Number      int    `json:"number"`
	Position    string `json:"position"`
	Laterality  string `json:"laterality"`
}

func newPlayerRequest(p *models.Player) playerRequest {
	return playerRequest{
		Name:        p.Name,
		Surname:     p.Surname,
		Nickname:    p.Nickname,
		BirthDate:   p.BirthDate.Format(dateLayout),
		Nationality: p.Nationality,
		Number:      p.Number,
		Position:    p.Position,
		Laterality:  p.Laterality,
	}
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*models.Profile, error) {
	var resp struct {
		User models.Profile `json:"user"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var resp LoginResult
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil)
}

// Me: 404 → session.ErrProfileNotFound (токен действителен, профиля нет).
func (c *Client) Me(ctx context.Context) (*session.User, error) {
	var resp struct {
		User session.User `json:"user"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", session.ErrProfileNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Identity проверяет токен и возвращает его identity без профиля.
func (c *Client) Identity(ctx context.Context) (*models.Identity, error) {
	var resp struct {
		Identity models.Identity `json:"identity"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/identity", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Identity, nil
}

// GetProfile реализует session.ProfileFetcher: 404 → session.ErrProfileNotFound.
func (c *Client) GetProfile(ctx context.Context, uid int) (*models.Profile, error) {
	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/users/%d/profile", uid), nil, &resp)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: %w", session.ErrProfileNotFound, err)
	}
	if err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

func (c *Client) ListTeams(ctx context.Context) ([]models.Team, error) {
	var resp struct {
		Teams []models.Team `json:"teams"`
	}
	if err := c.do(ctx, http.MethodGet, "/teams", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Teams, nil
}

func (c *Client) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	var resp struct {
		Team models.Team `json:"team"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teams/%d", teamID), nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

func (c *Client) CreateTeam(ctx context.Context, req CreateTeamRequest) (*models.Team, error) {
	var resp struct {
		Team models.Team `json:"team"`
	}
	if err := c.do(ctx, http.MethodPost, "/teams", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

// UploadLogo отправляет файл в поле multipart "logo".
func (c *Client) UploadLogo(ctx context.Context, teamID int, filename, contentType string, file io.Reader) (*models.Team, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="logo"; filename=%q`, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create multipart part: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPut, fmt.Sprintf("/teams/%d/logo", teamID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp struct {
		Team models.Team `json:"team"`
	}
	if err := c.send(req, &resp); err != nil {
		return nil, err
	}
	return &resp.Team, nil
}

func (c *Client) ListByTeam(ctx context.Context, teamID int) ([]models.Player, error) {
	var resp struct {
		Players []models.Player `json:"players"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/teams/%d/players", teamID), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Players, nil
}

// Create добавляет игрока в команду player.TeamID и переписывает player ответом сервера.
func (c *Client) Create(ctx context.Context, player *models.Player) error {
	var resp struct {
		Player models.Player `json:"player"`
	}
	path := fmt.Sprintf("/teams/%d/players", player.TeamID)
	if err := c.do(ctx, http.MethodPost, path, newPlayerRequest(player), &resp); err != nil {
		return err
	}
	*player = resp.Player
	return nil
}

func (c *Client) Update(ctx context.Context, player *models.Player) error {
	var resp struct {
		Player models.Player `json:"player"`
	}
	path := fmt.Sprintf("/players/%d", player.ID)
	if err := c.do(ctx, http.MethodPut, path, newPlayerRequest(player), &resp); err != nil {
		return err
	}
	*player = resp.Player
	return nil
}

func (c *Client) Delete(ctx context.Context, playerID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/players/%d", playerID), nil, nil)
}

func (c *Client) AssignmentOptions(ctx context.Context) (*AssignmentOptions, error) {
	var resp AssignmentOptions
	if err := c.do(ctx, http.MethodGet, "/users/assignment-options", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) AssignRole(ctx context.Context, uid int, role models.UserRole, teamID *int) (*models.Profile, error) {
	body := struct {
		Role   models.UserRole `json:"role"`
		TeamID *int            `json:"team_id"`
	}{Role: role, TeamID: teamID}

	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/users/%d/assignment", uid), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

func (c *Client) Countries(ctx context.Context, search string) ([]models.Country, error) {
	path := "/countries"
	if search != "" {
		path += "?search=" + url.QueryEscape(search)
	}
	var resp struct {
		Countries []models.Country `json:"countries"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Countries, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, method, path, bodyReader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, result)
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func (c *Client) send(req *http.Request, result any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return decodeError(resp.StatusCode, respBody)
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to parse response: %w", err)
		}
	}
	return nil
}

// decodeError разбирает конверт {"error": "..."} или {"error": {field: msg}}.
func decodeError(status int, body []byte) error {
	apiErr := &APIError{Status: status, Message: http.StatusText(status)}

	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 {
		return apiErr
	}

	var message string
	if err := json.Unmarshal(envelope.Error, &message); err == nil {
		apiErr.Message = message
		return apiErr
	}
	var fields map[string]string
	if err := json.Unmarshal(envelope.Error, &fields); err == nil {
		apiErr.Fields = fields
	}
	return apiErr
}
