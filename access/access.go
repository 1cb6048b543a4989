// Package access decides whether a protected view may be shown for the
// current session.
package access

import (
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

type Decision int

const (
	// Pending means the session is still loading; show a placeholder.
	Pending Decision = iota
	RedirectLogin
	RedirectHome
	Allow
)

func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	case Allow:
		return "allow"
	default:
		return "unknown"
	}
}

const (
	PathHome        = "/"
	PathLogin       = "/login"
	PathRegister    = "/register"
	PathCreateTeam  = "/create-team"
	PathAssignRoles = "/assign-roles"
	PathAddPlayer   = "/add-player"
	PathViewTeams   = "/view-teams"
)

// Route is a navigable view. A route without allowed roles is public.
type Route struct {
	Path    string
	Allowed []models.UserRole
}

func (r Route) Protected() bool {
	return len(r.Allowed) > 0
}

var routes = []Route{
	{Path: PathHome},
	{Path: PathLogin},
	{Path: PathRegister},
	{Path: PathCreateTeam, Allowed: []models.UserRole{models.RoleAdmin}},
	{Path: PathAssignRoles, Allowed: []models.UserRole{models.RoleAdmin}},
	{Path: PathAddPlayer, Allowed: []models.UserRole{models.RoleAdmin, models.RoleOp}},
	{Path: PathViewTeams},
}

func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

func Lookup(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}

// Decide evaluates the guard for a view restricted to allowed. Nothing is
// cached; callers re-evaluate on every session change.
func Decide(state session.State, allowed []models.UserRole) Decision {
	if state.Loading {
		return Pending
	}
	if state.User == nil {
		return RedirectLogin
	}
	if !models.RoleIn(state.User.Role, allowed) {
		return RedirectHome
	}
	return Allow
}

// Navigate resolves which view renders when path is requested. Unknown paths
// fall back to home.
func Navigate(state session.State, path string) (string, Decision) {
	route, ok := Lookup(path)
	if !ok {
		return PathHome, RedirectHome
	}
	if !route.Protected() {
		return route.Path, Allow
	}

	d := Decide(state, route.Allowed)
	switch d {
	case RedirectLogin:
		return PathLogin, d
	case RedirectHome:
		return PathHome, d
	default:
		return route.Path, d
	}
}
