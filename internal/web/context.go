package web

import (
	"net/http"

	"github.com/JonMunkholm/pmis/internal/audit"
	mw "github.com/JonMunkholm/pmis/internal/web/middleware"
)

// requestMetadata adds the client IP and User-Agent to the request context
// so journaled writes record who made them.
func requestMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.ContextWithIPAddress(r.Context(), mw.ClientIP(r))
		ctx = audit.ContextWithUserAgent(ctx, r.UserAgent())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
