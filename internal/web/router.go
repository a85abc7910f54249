package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reliefpc/clinic-portal/internal/session"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	Handler        *Handler
	Sessions       *session.Store
	Cookies        *session.CookieCodec
	Logger         *logging.Logger
	MetricsHandler http.Handler
}

// NewRouter creates the Chi router with all portal routes configured.
// Everything except /login, /health and /metrics sits behind the session
// guard.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if cfg.Logger != nil {
		r.Use(RequestLogger(cfg.Logger))
	}

	h := cfg.Handler

	r.Group(func(public chi.Router) {
		public.Get("/health", h.Health)
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
		public.Get("/", h.LoginForm)
		public.Get("/login", h.LoginForm)
		public.Post("/login", h.Login)
	})

	r.Group(func(private chi.Router) {
		private.Use(RequireSession(cfg.Sessions, cfg.Cookies, cfg.Logger))

		private.Post("/logout", h.Logout)
		private.Get("/dashboard", h.Dashboard)
		private.Get("/patients", h.Patients)
		private.Get("/add-patient", h.AddPatientForm)
		private.Post("/add-patient", h.AddPatient)
		private.Get("/details/{id}", h.Details)
		private.Get("/revisit/{id}", h.RevisitForm)
		private.Post("/revisit/{id}", h.Revisit)
		private.Get("/edit-patient/{id}", h.EditPatientForm)
		private.Post("/edit-patient/{id}", h.EditPatient)
		private.Get("/edit-visit/{visitId}", h.EditVisitForm)
		private.Post("/edit-visit/{visitId}", h.EditVisit)
		private.Get("/appointments", h.Appointments)
		private.Get("/analytics", h.Analytics)
	})

	return r
}
