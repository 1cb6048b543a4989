// Package session keeps the signed-in user of a client process: the identity
// reported by the gateway merged with the profile stored for it.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/club-admin/models"
)

// ErrProfileNotFound is returned by a ProfileFetcher when no profile exists
// for the identity.
var ErrProfileNotFound = errors.New("profile not found")

// Gateway streams identity changes. A nil identity means signed out.
type Gateway interface {
	Subscribe(listener func(*models.Identity)) (unsubscribe func())
}

type ProfileFetcher interface {
	GetProfile(ctx context.Context, uid int) (*models.Profile, error)
}

// User is an identity merged with its profile.
type User struct {
	UID       int             `json:"uid"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Phone     string          `json:"phone"`
	TeamID    *int            `json:"team_id"`
}

// State is a snapshot of the session. While Loading is true User is nil;
// afterwards a nil User means unauthenticated.
type State struct {
	User    *User
	Loading bool
}

func (s State) Authenticated() bool {
	return !s.Loading && s.User != nil
}

// Merge combines an identity with its profile.
func Merge(identity models.Identity, profile models.Profile) *User {
	return &User{
		UID:       identity.UID,
		Email:     identity.Email,
		Role:      profile.Role,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Phone:     profile.Phone,
		TeamID:    profile.TeamID,
	}
}

// Resolve fetches the profile of identity and merges it.
func Resolve(ctx context.Context, profiles ProfileFetcher, identity models.Identity) (*User, error) {
	profile, err := profiles.GetProfile(ctx, identity.UID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, ErrProfileNotFound
	}
	return Merge(identity, *profile), nil
}

// Context is the process-wide session. It subscribes to the gateway once, on
// construction, and is the only writer of the session state.
type Context struct {
	profiles ProfileFetcher
	logger   *slog.Logger

	baseCtx context.Context
	cancel  context.CancelFunc

	mu          sync.RWMutex
	state       State
	generation  uint64
	watchers    map[int]func(State)
	nextWatcher int

	ready       chan struct{}
	readyOnce   sync.Once
	unsubscribe func()
	closeOnce   sync.Once
}

func New(gateway Gateway, profiles ProfileFetcher, logger *slog.Logger) *Context {
	baseCtx, cancel := context.WithCancel(context.Background())
	c := &Context{
		profiles: profiles,
		logger:   logger,
		baseCtx:  baseCtx,
		cancel:   cancel,
		state:    State{Loading: true},
		watchers: make(map[int]func(State)),
		ready:    make(chan struct{}),
	}

	unsubscribe := gateway.Subscribe(c.onIdentityChange)
	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
	return c
}

func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Ready is closed once the first gateway notification has been resolved.
func (c *Context) Ready() <-chan struct{} {
	return c.ready
}

// Wait blocks until the session is ready or ctx is done.
func (c *Context) Wait(ctx context.Context) (State, error) {
	select {
	case <-c.ready:
		return c.State(), nil
	case <-ctx.Done():
		return c.State(), ctx.Err()
	}
}

// Watch registers fn to be called with every new state.
func (c *Context) Watch(fn func(State)) (cancel func()) {
	c.mu.Lock()
	id := c.nextWatcher
	c.nextWatcher++
	c.watchers[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// Close unsubscribes from the gateway and abandons pending profile fetches.
// Watchers are not called after Close.
func (c *Context) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		unsubscribe := c.unsubscribe
		c.unsubscribe = nil
		// pending fetches must not apply
		c.generation++
		c.mu.Unlock()

		if unsubscribe != nil {
			unsubscribe()
		}
		c.cancel()
	})
}

func (c *Context) onIdentityChange(identity *models.Identity) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.mu.Unlock()

	if identity == nil {
		c.apply(gen, nil)
		return
	}

	user, err := Resolve(c.baseCtx, c.profiles, *identity)
	if c.baseCtx.Err() != nil {
		c.logger.Debug("session closed, dropping profile fetch", slog.Int("uid", identity.UID))
		return
	}
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.logger.Error("no profile document for signed-in identity", slog.Int("uid", identity.UID))
		} else {
			c.logger.Error("failed to fetch profile", slog.Int("uid", identity.UID), slog.Any("error", err))
		}
		c.apply(gen, nil)
		return
	}
	c.apply(gen, user)
}

// apply stores user unless a newer notification arrived meanwhile.
func (c *Context) apply(gen uint64, user *User) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		c.logger.Debug("discarding stale session update", slog.Uint64("generation", gen))
		return
	}
	c.state = State{User: user}
	state := c.state
	watchers := make([]func(State), 0, len(c.watchers))
	for _, fn := range c.watchers {
		watchers = append(watchers, fn)
	}
	c.mu.Unlock()

	c.readyOnce.Do(func() { close(c.ready) })

	for _, fn := range watchers {
		fn(state)
	}
}

func (u *User) String() string {
	return fmt.Sprintf("%s %s <%s> (%s)", u.FirstName, u.LastName, u.Email, u.Role)
}
