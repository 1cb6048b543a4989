package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

var _ session.Gateway = (*Gateway)(nil)

// Gateway is the client side of the identity stream. It owns the bearer
// token and tells subscribers whenever the signed-in identity changes.
type Gateway struct {
	api    *Client
	tokens TokenStore
	logger *slog.Logger

	mu        sync.Mutex
	current   *models.Identity
	restored  bool
	listeners map[int]func(*models.Identity)
	nextID    int
}

func NewGateway(api *Client, tokens TokenStore, logger *slog.Logger) *Gateway {
	return &Gateway{
		api:       api,
		tokens:    tokens,
		logger:    logger,
		listeners: make(map[int]func(*models.Identity)),
	}
}

// Subscribe registers listener. Once Restore has run, the listener is
// called right away with the current identity.
func (g *Gateway) Subscribe(listener func(*models.Identity)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.listeners[id] = listener
	restored := g.restored
	current := copyIdentity(g.current)
	g.mu.Unlock()

	if restored {
		listener(current)
	}

	return func() {
		g.mu.Lock()
		delete(g.listeners, id)
		g.mu.Unlock()
	}
}

// Restore loads the stored token and checks it against /auth/identity. A
// rejected token is forgotten; the outcome is broadcast either way. Profiles
// are not consulted here, so a valid token without a profile is kept.
func (g *Gateway) Restore(ctx context.Context) error {
	token, err := g.tokens.Load()
	if err != nil {
		g.publish(nil)
		return err
	}
	if token == "" {
		g.publish(nil)
		return nil
	}

	g.api.SetToken(token)
	identity, err := g.api.Identity(ctx)
	if err != nil {
		g.api.SetToken("")
		if errors.Is(err, ErrUnauthorized) {
			g.logger.Debug("stored token rejected, signing out")
			if clearErr := g.tokens.Clear(); clearErr != nil {
				g.logger.Warn("failed to clear token file", slog.Any("error", clearErr))
			}
			g.publish(nil)
			return nil
		}
		g.publish(nil)
		return fmt.Errorf("failed to restore session: %w", err)
	}

	g.publish(identity)
	return nil
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (*models.Identity, error) {
	result, err := g.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	g.api.SetToken(result.Token)
	if err := g.tokens.Save(result.Token); err != nil {
		g.logger.Warn("failed to persist token", slog.Any("error", err))
	}

	identity := result.Identity
	g.publish(&identity)
	return &identity, nil
}

// SignUp registers the account and signs it in.
func (g *Gateway) SignUp(ctx context.Context, req RegisterRequest) (*models.Identity, error) {
	if _, err := g.api.Register(ctx, req); err != nil {
		return nil, err
	}
	return g.SignIn(ctx, req.Email, req.Password)
}

// SignOut revokes the token on the server when possible and always clears
// the local session.
func (g *Gateway) SignOut(ctx context.Context) error {
	var revokeErr error
	if g.api.Token() != "" {
		if err := g.api.Logout(ctx); err != nil && !errors.Is(err, ErrUnauthorized) {
			revokeErr = fmt.Errorf("failed to revoke token: %w", err)
		}
	}

	g.api.SetToken("")
	if err := g.tokens.Clear(); err != nil {
		g.logger.Warn("failed to clear token file", slog.Any("error", err))
	}
	g.publish(nil)
	return revokeErr
}

func (g *Gateway) Current() *models.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	return copyIdentity(g.current)
}

func (g *Gateway) publish(identity *models.Identity) {
	g.mu.Lock()
	g.current = copyIdentity(identity)
	g.restored = true
	listeners := make([]func(*models.Identity), 0, len(g.listeners))
	for _, fn := range g.listeners {
		listeners = append(listeners, fn)
	}
	g.mu.Unlock()

	for _, fn := range listeners {
		fn(copyIdentity(identity))
	}
}

func copyIdentity(identity *models.Identity) *models.Identity {
	if identity == nil {
		return nil
	}
	cp := *identity
	return &cp
}
