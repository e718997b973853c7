package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/pmis/internal/core"
	"github.com/JonMunkholm/pmis/internal/logging"
	mw "github.com/JonMunkholm/pmis/internal/web/middleware"
	"github.com/JonMunkholm/pmis/internal/web/views"
)

// handleLoginPage renders the access code form.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Security.RequireAccessCode {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	q := r.URL.Query()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := views.Login(safeNext(q.Get("next")), q.Get("failed") == "1").Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render login", "error", err)
	}
}

// handleLogin checks the access code and starts a session.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	next := safeNext(r.FormValue("next"))
	code := strings.TrimSpace(r.FormValue("code"))

	if !mw.ValidAccessCode(code, s.cfg.Security.AccessCodes) {
		err := fmt.Errorf("login: %w", core.ErrAccessDenied)
		if wantsJSON(r) {
			s.respondError(w, r, err, http.StatusUnauthorized)
			return
		}
		logging.FromContext(r.Context()).Warn("auth: access code rejected", "remote_addr", r.RemoteAddr)
		http.Redirect(w, r, "/login?failed=1&next="+url.QueryEscape(next), http.StatusSeeOther)
		return
	}

	token, expires := s.sessions.Issue()
	http.SetCookie(w, sessionCookie(r, token, expires))
	if wantsJSON(r) {
		writeJSON(w, map[string]interface{}{"status": "ok", "expires": expires})
		return
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// handleLogout ends the session.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(mw.CookieName); err == nil {
		s.sessions.Revoke(c.Value)
	}
	http.SetCookie(w, sessionCookie(r, "", time.Time{}))
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// sessionCookie builds the session cookie; an empty token deletes it.
func sessionCookie(r *http.Request, token string, expires time.Time) *http.Cookie {
	c := &http.Cookie{
		Name:     mw.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	}
	if token == "" {
		c.MaxAge = -1
	} else {
		c.Expires = expires
	}
	return c
}
