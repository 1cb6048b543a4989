package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dosada05/club-admin/middleware"
	"github.com/Dosada05/club-admin/services"
)

// loginFailedMessage: единое сообщение для любой неудачи входа.
const loginFailedMessage = "invalid email or password"

type AuthHandler struct {
	authService services.AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService services.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	user, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput

	if err := readJSON(w, r, &input); err != nil {
		unauthorizedResponse(w, r, loginFailedMessage)
		return
	}

	token, err := h.authService.Login(r.Context(), input)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			h.logger.Error("login failed", slog.Any("error", err))
		}
		unauthorizedResponse(w, r, loginFailedMessage)
		return
	}

	response := jsonResponse{
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
		"identity":   token.Identity,
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.GetTokenFromContext(r.Context())
	if err := h.authService.Logout(r.Context(), token); err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Identity возвращает проверенную identity токена, даже если профиля нет.
func (h *AuthHandler) Identity(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"identity": identity}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
