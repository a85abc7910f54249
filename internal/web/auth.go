package web

import (
	"net/http"
)

type loginPage struct {
	basePage
}

// LoginForm renders the login screen, bouncing straight to the dashboard
// when a session is already active.
func (h *Handler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if h.hasSession(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.render(w, "login.html", loginPage{})
}

// Login verifies credentials against the clinic API and establishes the
// durable session. Any failure reads as invalid credentials; the upstream
// error detail goes to the log, not the user.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, "login.html", loginPage{basePage{Error: "Invalid Credentials"}})
		return
	}
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	id, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		h.logger.Warn("login failed", "username", username, "error", err)
		h.render(w, "login.html", loginPage{basePage{Error: "Invalid Credentials"}})
		return
	}

	sid, err := h.sessions.Login(r.Context(), id)
	if err != nil {
		h.logger.Error("session persist failed", "error", err)
		h.render(w, "login.html", loginPage{basePage{Error: "Invalid Credentials"}})
		return
	}
	signed, err := h.cookies.Encode(sid)
	if err != nil {
		h.logger.Error("cookie encode failed", "error", err)
		h.render(w, "login.html", loginPage{basePage{Error: "Invalid Credentials"}})
		return
	}
	h.cookies.SetCookie(w, signed)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout clears both the durable session and the browser cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if sid, ok := h.cookies.SIDFromRequest(r); ok {
		if err := h.sessions.Logout(r.Context(), sid); err != nil {
			h.logger.Warn("logout failed", "error", err)
		}
	}
	h.cookies.ClearCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) hasSession(r *http.Request) bool {
	sid, ok := h.cookies.SIDFromRequest(r)
	if !ok {
		return false
	}
	id, err := h.sessions.Current(r.Context(), sid)
	return err == nil && id != nil
}
