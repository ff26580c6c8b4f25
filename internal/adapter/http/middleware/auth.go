package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/khatahub/khata/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// OwnerContextKey is the context key for the authenticated owner ID
	OwnerContextKey ContextKey = "owner_id"
)

// AuthMiddleware creates an authentication middleware. Every request
// inside the API group must carry a bearer token for a registered owner;
// the owner ID scopes all repository queries downstream.
func AuthMiddleware(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), OwnerContextKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OwnerFromContext extracts the authenticated owner ID from context
func OwnerFromContext(ctx context.Context) (string, bool) {
	ownerID, ok := ctx.Value(OwnerContextKey).(string)
	return ownerID, ok && ownerID != ""
}
