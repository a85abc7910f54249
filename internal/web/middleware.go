package web

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reliefpc/clinic-portal/internal/session"
	"github.com/reliefpc/clinic-portal/pkg/logging"
)

// RequireSession gates a page behind an active session: requests without
// one are redirected to /login. This is advisory client-side gating; the
// clinic API authorizes every upstream request independently.
func RequireSession(store *session.Store, cookies *session.CookieCodec, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, ok := cookies.SIDFromRequest(r)
			if !ok {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			id, err := store.Current(r.Context(), sid)
			if err != nil {
				logger.Error("session lookup failed", "error", err)
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if id == nil {
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequestLogger emits structured logs for every HTTP request.
func RequestLogger(logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := r.Header.Get("X-Request-ID")
			if reqID == "" {
				reqID = uuid.NewString()
			}
			next.ServeHTTP(w, r)
			logger.Info("request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"request_id", reqID,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
