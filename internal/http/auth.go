package httpapi

import (
	"context"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"

	"legacyvoices-backend-go/internal/services"
)

type contextKey string

const ctxAdminUsername contextKey = "adminUsername"

// WithAuth guards the review surface. It validates the bearer token and
// checks the encoded administrator still exists, so revoked accounts
// lose access before token expiry.
func WithAuth(tokens services.TokenService, db *sqlx.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			tokenStr := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			username, err := tokens.ParseToken(tokenStr)
			if err != nil {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			exists, err := services.AdminExists(db, username)
			if err != nil || !exists {
				WriteError(w, http.StatusUnauthorized, "Authentication failed")
				return
			}
			ctx := context.WithValue(r.Context(), ctxAdminUsername, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func CurrentAdmin(r *http.Request) string {
	if value, ok := r.Context().Value(ctxAdminUsername).(string); ok {
		return value
	}
	return ""
}
