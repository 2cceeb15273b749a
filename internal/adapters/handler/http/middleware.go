package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/referendum/api/internal/core/domain"
	"github.com/referendum/api/internal/core/ports"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticator validates the bearer token and stores its claims on the
// request context.
func Authenticator(authService ports.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Missing or invalid Authorization header."})
				return
			}

			claims, err := authService.Verify(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token."})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose token carries any
// other role. Authorization failures are 403, distinct from the 401s
// above.
func RequireRole(role domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil || claims.Role != role {
				writeJSON(w, http.StatusForbidden, map[string]string{"error": "Access denied."})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClaimsFromContext returns the verified token claims, or nil when the
// request did not pass through Authenticator.
func ClaimsFromContext(ctx context.Context) *ports.Claims {
	claims, _ := ctx.Value(claimsKey).(*ports.Claims)
	return claims
}
