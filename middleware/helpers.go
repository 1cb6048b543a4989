package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

type contextKey string

const (
	userContextKey     contextKey = "user"
	identityContextKey contextKey = "identity"
	tokenContextKey    contextKey = "token"
)

var (
	ErrNoUserInContext     = errors.New("user not found in context")
	ErrNoIdentityInContext = errors.New("identity not found in context")
)

// GetUserFromContext возвращает пользователя, положенного Authenticate.
func GetUserFromContext(ctx context.Context) (*session.User, error) {
	user, ok := ctx.Value(userContextKey).(*session.User)
	if !ok || user == nil {
		return nil, ErrNoUserInContext
	}
	return user, nil
}

// GetIdentityFromContext возвращает identity, положенную Identify.
func GetIdentityFromContext(ctx context.Context) (*models.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*models.Identity)
	if !ok || identity == nil {
		return nil, ErrNoIdentityInContext
	}
	return identity, nil
}

func WithIdentity(ctx context.Context, identity *models.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// GetTokenFromContext возвращает bearer-токен текущего запроса.
func GetTokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenContextKey).(string)
	return token
}

// WithUser кладёт пользователя в контекст (используется и в тестах обработчиков).
func WithUser(ctx context.Context, user *session.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
