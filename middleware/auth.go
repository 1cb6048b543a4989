package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/club-admin/access"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*models.Identity, error)
}

// Identify проверяет bearer-токен и кладёт identity и сам токен в контекст.
// Профиль не загружается. Токен также принимается в ?token= для websocket.
func Identify(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				logger.Debug("token rejected", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := WithIdentity(r.Context(), identity)
			ctx = context.WithValue(ctx, tokenContextKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// LoadUser объединяет identity из контекста с профилем. Identity без
// профиля считается неаутентифицированной.
func LoadUser(profiles session.ProfileFetcher, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := GetIdentityFromContext(r.Context())
			if err != nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			user, err := session.Resolve(r.Context(), profiles, *identity)
			if err != nil {
				if errors.Is(err, session.ErrProfileNotFound) {
					logger.Warn("no profile for authenticated identity", slog.Int("uid", identity.UID))
					writeError(w, http.StatusUnauthorized, "authentication required")
					return
				}
				logger.Error("failed to load profile", slog.Int("uid", identity.UID), slog.Any("error", err))
				writeError(w, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// Authenticate = Identify + LoadUser.
func Authenticate(verifier TokenVerifier, profiles session.ProfileFetcher, logger *slog.Logger) func(http.Handler) http.Handler {
	identify := Identify(verifier, logger)
	loadUser := LoadUser(profiles, logger)
	return func(next http.Handler) http.Handler {
		return identify(loadUser(next))
	}
}

// RequireRoles: HTTP-вариант Access Guard: нет пользователя → 401,
// роль не в списке → 403.
func RequireRoles(allowed ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, _ := GetUserFromContext(r.Context())

			switch access.Decide(session.State{User: user}, allowed) {
			case access.Allow:
				next.ServeHTTP(w, r)
			case access.RedirectLogin:
				writeError(w, http.StatusUnauthorized, "authentication required")
			default:
				writeError(w, http.StatusForbidden, "operation not allowed for the current user")
			}
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get("token")
}
