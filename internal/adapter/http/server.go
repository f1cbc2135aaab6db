package adapthttp

import (
	"net/http"

	"meddiary/internal/app"
	"meddiary/internal/domain"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

// Services groups the application services the adapter routes to.
type Services struct {
	Auth     *app.AuthService
	Meds     *app.MedicationService
	Intakes  *app.IntakeService
	Schedule *app.ScheduleService
	History  *app.HistoryService
	Charts   *app.ChartsService
	Settings *app.SettingsService
	Reminder *app.ReminderService
}

// OIDCConfig holds the SSO provider settings. Disabled when Enabled is false.
type OIDCConfig struct {
	Enabled      bool
	Provider     *oidc.Provider
	OAuth2Config oauth2.Config
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	svc         Services
	log         zerolog.Logger
	webDir      string
	origins     []string
	cronSecret  string
	forwardAuth bool
	oidcConfig  OIDCConfig
	metrics     http.Handler
	today       func() string
	disableAuth bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithWebDir serves the single-page frontend from dir.
func WithWebDir(dir string) Option {
	return func(s *Server) { s.webDir = dir }
}

// WithAllowedOrigins enables CORS for the given origins.
func WithAllowedOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithCronSecret requires "Authorization: Bearer <secret>" on cron routes.
func WithCronSecret(secret string) Option {
	return func(s *Server) { s.cronSecret = secret }
}

// WithForwardAuth trusts the Remote-User header. Only enable it behind a
// proxy that strips the header from client requests.
func WithForwardAuth(enabled bool) Option {
	return func(s *Server) { s.forwardAuth = enabled }
}

// WithOIDC enables SSO login.
func WithOIDC(cfg OIDCConfig) Option {
	return func(s *Server) { s.oidcConfig = cfg }
}

// WithMetricsHandler exposes h on /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithToday overrides how the current local date is computed.
func WithToday(today func() string) Option {
	return func(s *Server) { s.today = today }
}

// New creates a Server wired to the given application services.
func New(svc Services, opts ...Option) *Server {
	s := &Server{
		svc:    svc,
		log:    zerolog.Nop(),
		webDir: "web",
		today:  domain.Today,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithoutAuth disables authentication and serves every request as user 1.
// It is meant for tests.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(chimw.Recoverer)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   s.origins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(withNoCache)

	r.Route("/api", func(api chi.Router) {
		api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		api.Get("/config", s.handleConfig)

		api.Post("/auth/login", s.handleLogin)
		api.Post("/auth/logout", s.handleLogout)
		api.Post("/auth/setup", s.handleSetupUser)
		api.Get("/auth/sso/login", s.handleSSOLogin)
		api.Get("/auth/sso/callback", s.handleSSOCallback)

		api.Get("/session", s.handleSession)
		api.Get("/session/events", s.handleSessionEvents)

		api.With(s.cronAuth).Get("/cron/meds-reminder", s.handleMedsReminder)

		api.Group(func(p chi.Router) {
			p.Use(s.authMiddleware)

			p.Post("/auth/password", s.handleChangePassword)

			p.Get("/today", s.handleToday)
			p.Get("/week", s.handleWeek)

			p.Get("/meds", s.handleListMeds)
			p.Post("/meds", s.handleCreateMed)
			p.Patch("/meds/{id}", s.handleUpdateMed)
			p.Delete("/meds/{id}", s.handleDeleteMed)

			p.Post("/intakes/{medID}/toggle", s.handleToggleIntake)
			p.Put("/intakes/{medID}", s.handleMarkIntake)
			p.Delete("/intakes/{medID}", s.handleUnmarkIntake)

			p.Get("/history", s.handleHistory)
			p.Get("/charts/daily", s.handleChartsDaily)

			p.Get("/settings", s.handleGetSettings)
			p.Put("/settings", s.handlePutSettings)
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	r.Handle("/*", spaFromDisk(s.webDir))

	return r
}
