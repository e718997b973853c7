package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/JonMunkholm/pmis/internal/config"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie issued after a successful login.
	CookieName = "pmis_session"

	// AccessCodeHeader lets scripted clients present an access code on
	// every request instead of logging in.
	AccessCodeHeader = "X-Access-Code"
)

// Sessions holds the login sessions issued by the access gate. Sessions
// live in memory and do not survive a restart.
type Sessions struct {
	mu     sync.Mutex
	tokens map[string]time.Time
	ttl    time.Duration
	now    func() time.Time
}

// NewSessions returns a session store whose sessions expire after ttl.
func NewSessions(ttl time.Duration) *Sessions {
	return &Sessions{tokens: make(map[string]time.Time), ttl: ttl, now: time.Now}
}

// Issue starts a session and returns its token and expiry.
func (s *Sessions) Issue() (string, time.Time) {
	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for t, exp := range s.tokens {
		if now.After(exp) {
			delete(s.tokens, t)
		}
	}
	expires := now.Add(s.ttl)
	s.tokens[token] = expires
	return token, expires
}

// Valid reports whether token names a live session.
func (s *Sessions) Valid(token string) bool {
	if token == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.tokens[token]
	if !ok {
		return false
	}
	if s.now().After(exp) {
		delete(s.tokens, token)
		return false
	}
	return true
}

// Revoke ends a session.
func (s *Sessions) Revoke(token string) {
	s.mu.Lock()
	delete(s.tokens, token)
	s.mu.Unlock()
}

// AccessGate returns middleware that admits a request when it carries a
// live session cookie or a valid access code header. Other requests get a
// 401 on /api/ paths and a redirect to loginPath everywhere else. Paths in
// public, and loginPath itself, always pass. With RequireAccessCode off the
// gate is open.
func AccessGate(cfg *config.SecurityConfig, sessions *Sessions, loginPath string, public ...string) func(http.Handler) http.Handler {
	open := map[string]bool{loginPath: true}
	for _, p := range public {
		open[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.RequireAccessCode || open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			if c, err := r.Cookie(CookieName); err == nil && sessions.Valid(c.Value) {
				next.ServeHTTP(w, r)
				return
			}

			if code := r.Header.Get(AccessCodeHeader); code != "" {
				if ValidAccessCode(code, cfg.AccessCodes) {
					next.ServeHTTP(w, r)
					return
				}
				slog.Warn("auth: invalid access code",
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)
			}

			if strings.HasPrefix(r.URL.Path, "/api/") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"access code required","code":"AUTH001"}`))
				return
			}

			target := loginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// ValidAccessCode checks code against every configured code in constant
// time, whichever one matches.
func ValidAccessCode(code string, codes []string) bool {
	valid := 0
	for _, c := range codes {
		valid |= subtle.ConstantTimeCompare([]byte(code), []byte(c))
	}
	return valid == 1
}
