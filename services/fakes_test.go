package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/repositories"
	"github.com/Dosada05/club-admin/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func intRef(v int) *int { return &v }

type fakeUserRepo struct {
	mu      sync.Mutex
	nextID  int
	users   map[int]models.Profile
	hashes  map[int]string
	teams   map[int]bool
	listErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		nextID: 1,
		users:  map[int]models.Profile{},
		hashes: map[int]string{},
		teams:  map[int]bool{},
	}
}

func (r *fakeUserRepo) Create(_ context.Context, p *models.Profile, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == p.Email {
			return repositories.ErrUserEmailConflict
		}
	}
	p.UID = r.nextID
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r.nextID++
	r.users[p.UID] = *p
	r.hashes[p.UID] = hash
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int) (*models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetCredentialsByEmail(_ context.Context, email string) (*models.Credentials, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, u := range r.users {
		if u.Email == email {
			return &models.Credentials{UID: id, Email: u.Email, PasswordHash: r.hashes[id]}, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) List(_ context.Context) ([]models.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.Profile, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (r *fakeUserRepo) UpdateAssignment(_ context.Context, id int, role models.UserRole, teamID *int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrUserNotFound
	}
	if teamID != nil && !r.teams[*teamID] {
		return repositories.ErrUserTeamInvalid
	}
	u.Role = role
	u.TeamID = teamID
	r.users[id] = u
	return nil
}

type fakeTeamRepo struct {
	mu     sync.Mutex
	nextID int
	teams  map[int]models.Team
}

func newFakeTeamRepo(teams ...models.Team) *fakeTeamRepo {
	r := &fakeTeamRepo{nextID: 100, teams: map[int]models.Team{}}
	for _, t := range teams {
		r.teams[t.ID] = t
	}
	return r
}

func (r *fakeTeamRepo) Create(_ context.Context, t *models.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = r.nextID
	r.nextID++
	r.teams[t.ID] = *t
	return nil
}

func (r *fakeTeamRepo) GetByID(_ context.Context, id int) (*models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return &t, nil
}

func (r *fakeTeamRepo) List(_ context.Context) ([]models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Team, 0, len(r.teams))
	for _, t := range r.teams {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeTeamRepo) UpdateLogoKey(_ context.Context, id int, key *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.teams[id]
	if !ok {
		return repositories.ErrTeamNotFound
	}
	t.LogoKey = key
	r.teams[id] = t
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	nextID  int
	players map[int]models.Player
	calls   []string
}

func newFakePlayerRepo(players ...models.Player) *fakePlayerRepo {
	r := &fakePlayerRepo{nextID: 500, players: map[int]models.Player{}}
	for _, p := range players {
		r.players[p.ID] = p
	}
	return r
}

func (r *fakePlayerRepo) ListByTeam(_ context.Context, teamID int) ([]models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Player, 0)
	for _, p := range r.players {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakePlayerRepo) GetByID(_ context.Context, id int) (*models.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.players[id]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (r *fakePlayerRepo) Create(_ context.Context, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = r.nextID
	r.nextID++
	r.players[p.ID] = *p
	r.calls = append(r.calls, "create")
	return nil
}

func (r *fakePlayerRepo) Update(_ context.Context, p *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[p.ID]; !ok {
		return repositories.ErrPlayerNotFound
	}
	r.players[p.ID] = *p
	r.calls = append(r.calls, "update")
	return nil
}

func (r *fakePlayerRepo) Delete(_ context.Context, id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.players[id]; !ok {
		return repositories.ErrPlayerNotFound
	}
	delete(r.players, id)
	r.calls = append(r.calls, "delete")
	return nil
}

type fakeUploader struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}}
}

func (u *fakeUploader) Upload(_ context.Context, key, _ string, reader io.Reader) (*storage.UploadResult, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(reader); err != nil {
		return nil, err
	}
	u.objects[key] = buf.Bytes()
	return &storage.UploadResult{Key: key, Location: u.GetPublicURL(key)}, nil
}

func (u *fakeUploader) Delete(_ context.Context, key string) error {
	delete(u.objects, key)
	u.deleted = append(u.deleted, key)
	return nil
}

func (u *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.club.test/" + key
}

type rosterEvent struct {
	TeamID  int
	Type    string
	Payload any
}

type fakeNotifier struct {
	mu     sync.Mutex
	events []rosterEvent
}

func (n *fakeNotifier) PublishRoster(teamID int, eventType string, payload any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, rosterEvent{TeamID: teamID, Type: eventType, Payload: payload})
}
