package handlers

import (
	"errors"
	"net/http"

	"github.com/Dosada05/club-admin/middleware"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/services"
	"github.com/Dosada05/club-admin/session"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"users": users}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Me возвращает identity, объединённую с профилем; нет профиля → 404.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	user, err := session.Resolve(r.Context(), h.userService, *identity)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GetProfile: свой профиль отдаётся по одной identity (нет профиля → 404),
// чужой требует профиля администратора.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	identity, err := middleware.GetIdentityFromContext(r.Context())
	if err != nil {
		unauthorizedResponse(w, r, "authentication required")
		return
	}

	var profile *models.Profile
	if identity.UID == userID {
		profile, err = h.userService.GetProfile(r.Context(), userID)
	} else {
		actor, resolveErr := session.Resolve(r.Context(), h.userService, *identity)
		if errors.Is(resolveErr, session.ErrProfileNotFound) {
			forbiddenResponse(w, r, services.ErrForbiddenOperation.Error())
			return
		}
		if resolveErr != nil {
			mapServiceErrorToHTTP(w, r, resolveErr)
			return
		}
		profile, err = h.userService.GetProfileFor(r.Context(), actor, userID)
	}
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) AssignmentOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.userService.AssignmentOptions(r.Context())
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, opts, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *UserHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	userID, err := getIDFromURL(r, "userID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	var input services.AssignRoleInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}

	profile, err := h.userService.AssignRole(r.Context(), userID, input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"profile": profile}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
