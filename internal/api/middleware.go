package api

import (
	"net/http"
	"strings"
	"time"

	"mcanlodge/internal/user"
	"mcanlodge/pkg/config"
	"mcanlodge/pkg/token"
)

// BearerAuth validates the Authorization bearer token and attaches the user
// record to the request context.
//
// The user row is re-read on every request so role changes and deletions take
// effect without waiting for token expiry.
func BearerAuth(cfg config.Config, users *user.Repository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := strings.TrimSpace(r.Header.Get("Authorization"))
			if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing bearer token")
				return
			}

			sess, err := token.Verify(strings.TrimSpace(authz[7:]), cfg.Auth.JWTSecret, time.Now())
			if err != nil {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "invalid token")
				return
			}

			u, err := users.FindByID(r.Context(), sess.UserID)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "unknown user")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
		})
	}
}

// RequireAdmin must be mounted after BearerAuth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := UserFromContext(r.Context())
		if u == nil {
			WriteError(w, http.StatusUnauthorized, CodeUnauthorized, "missing user identity")
			return
		}
		if !u.IsAdmin() {
			WriteError(w, http.StatusForbidden, CodeForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
