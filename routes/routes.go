package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Dosada05/club-admin/docs"
	"github.com/Dosada05/club-admin/handlers"
	"github.com/Dosada05/club-admin/middleware"
	"github.com/Dosada05/club-admin/models"
	"github.com/Dosada05/club-admin/session"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Team      *handlers.TeamHandler
	Player    *handlers.PlayerHandler
	Squad     *handlers.SquadHandler
	Country   *handlers.CountryHandler
	WebSocket *handlers.WebSocketHandler
}

type Options struct {
	Verifier       middleware.TokenVerifier
	Profiles       session.ProfileFetcher
	Logger         *slog.Logger
	Gatherer       prometheus.Gatherer
	Metrics        *middleware.Metrics
	AllowedOrigins []string
}

var playerManagers = []models.UserRole{models.RoleAdmin, models.RoleOp, models.RoleStaff}

func SetupRoutes(router *chi.Mux, h Handlers, opts Options) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middleware.Logging(opts.Logger))
	router.Use(chiMiddleware.Recoverer)
	if opts.Metrics != nil {
		router.Use(opts.Metrics.Middleware)
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Location"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	identify := middleware.Identify(opts.Verifier, opts.Logger)
	loadUser := middleware.LoadUser(opts.Profiles, opts.Logger)

	if opts.Gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	router.Get("/swagger/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(docs.SwaggerJSON)
	})
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/login", h.Auth.Login)

		// только проверенный токен: профиль может отсутствовать
		r.Group(func(r chi.Router) {
			r.Use(identify)
			r.Post("/logout", h.Auth.Logout)
			r.Get("/identity", h.Auth.Identity)
			r.Get("/me", h.User.Me)
		})
	})

	router.Get("/countries", h.Country.Search)

	router.Route("/squad", func(r chi.Router) {
		r.Get("/disciplines", h.Squad.Disciplines)
		r.Get("/positions", h.Squad.Positions)
		r.Get("/laterality", h.Squad.Laterality)
		r.Get("/age", h.Squad.Age)
	})

	router.With(identify).Get("/users/{userID}/profile", h.User.GetProfile)

	router.Group(func(r chi.Router) {
		r.Use(identify, loadUser)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRoles(models.RoleAdmin))
			r.Get("/users", h.User.ListUsers)
			r.Get("/users/assignment-options", h.User.AssignmentOptions)
			r.Patch("/users/{userID}/assignment", h.User.AssignRole)
		})

		r.Route("/teams", func(r chi.Router) {
			r.Get("/{teamID}", h.Team.GetTeam)

			r.With(middleware.RequireRoles(models.RoleAdmin)).Post("/", h.Team.CreateTeam)
			r.With(middleware.RequireRoles(models.RoleAdmin)).Put("/{teamID}/logo", h.Team.UploadLogo)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRoles(playerManagers...))
				r.Get("/", h.Team.ListTeams)
				r.Get("/{teamID}/players", h.Player.ListPlayers)
				r.Post("/{teamID}/players", h.Player.CreatePlayer)
			})
		})

		r.Route("/players", func(r chi.Router) {
			r.Use(middleware.RequireRoles(playerManagers...))
			r.Put("/{playerID}", h.Player.UpdatePlayer)
			r.Delete("/{playerID}", h.Player.DeletePlayer)
		})

		r.With(middleware.RequireRoles(playerManagers...)).Get("/ws/teams/{teamID}", h.WebSocket.ServeTeamRoster)
	})
}
