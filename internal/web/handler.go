package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/reliefpc/clinic-portal/internal/analytics"
	"github.com/reliefpc/clinic-portal/internal/patients"
	"github.com/reliefpc/clinic-portal/internal/session"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

// Authenticator verifies credentials against the clinic API.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*session.Identity, error)
}

// Handler renders the portal pages.
type Handler struct {
	dir       patients.Directory
	auth      Authenticator
	sessions  *session.Store
	cookies   *session.CookieCodec
	analytics *analytics.Fetcher
	templates *Templates
	logger    *logging.Logger
	now       func() time.Time
}

// HandlerConfig wires the page handler's collaborators.
type HandlerConfig struct {
	Directory patients.Directory
	Auth      Authenticator
	Sessions  *session.Store
	Cookies   *session.CookieCodec
	Analytics *analytics.Fetcher
	Logger    *logging.Logger
	// Now is overridable in tests; defaults to time.Now.
	Now func() time.Time
}

func NewHandler(cfg HandlerConfig) (*Handler, error) {
	if cfg.Directory == nil {
		return nil, fmt.Errorf("web: Directory is required")
	}
	if cfg.Auth == nil {
		return nil, fmt.Errorf("web: Auth is required")
	}
	if cfg.Sessions == nil || cfg.Cookies == nil {
		return nil, fmt.Errorf("web: session store and cookie codec are required")
	}
	templates, err := NewTemplates()
	if err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	fetcher := cfg.Analytics
	if fetcher == nil {
		fetcher = analytics.NewFetcher(cfg.Directory, logger)
	}
	return &Handler{
		dir:       cfg.Directory,
		auth:      cfg.Auth,
		sessions:  cfg.Sessions,
		cookies:   cfg.Cookies,
		analytics: fetcher,
		templates: templates,
		logger:    logger.Component("web"),
		now:       now,
	}, nil
}

// basePage carries the fields every template expects.
type basePage struct {
	Username string
	Active   string
	Error    string
	Message  string
}

func (h *Handler) base(r *http.Request, active string) basePage {
	p := basePage{Active: active}
	if id, ok := IdentityFromContext(r.Context()); ok {
		p.Username = id.Username
	}
	return p
}

func (h *Handler) render(w http.ResponseWriter, page string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.Render(w, page, data); err != nil {
		h.logger.Error("render failed", "page", page, "error", err)
	}
}

func (h *Handler) today() string {
	return patients.DayString(h.now())
}

// formFields is the fixed set of posted field names applied to a form
// state via VisitForm.WithField.
var formFields = []string{
	"name", "age", "gender", "phone", "email", "diabetes",
	"condition", "treatment", "visitDate", "followUpDate", "amountPaid",
}

// formFromRequest folds the posted values into a base form state one
// field at a time, so the same input masks apply no matter which page
// submitted the form.
func formFromRequest(r *http.Request, base patients.VisitForm) patients.VisitForm {
	form := base
	for _, name := range formFields {
		if !r.PostForm.Has(name) {
			continue
		}
		form = form.WithField(name, r.PostFormValue(name))
	}
	return form
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
