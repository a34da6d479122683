package auth

import (
	"context"
	"net/http"
	"strings"

	"warung-pos/internal/models"
	"warung-pos/internal/services/web"
)

type contextKey string

const claimsKey contextKey = "auth_claims"

// ClaimsFrom extracts the verified claims placed by Authenticate.
func ClaimsFrom(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}

// Authenticate rejects requests without a valid bearer token and stores the
// claims in the request context.
func (s *Service) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			web.WriteError(w, http.StatusUnauthorized, "missing bearer token", "")
			return
		}

		claims, err := s.ParseToken(token)
		if err != nil {
			web.WriteError(w, http.StatusUnauthorized, "invalid or expired token", "")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated requests from non-admin users. Must run
// inside Authenticate.
func (s *Service) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFrom(r.Context())
		if !ok || claims.Role != models.RoleAdmin {
			web.WriteError(w, http.StatusForbidden, "admin role required", "")
			return
		}
		next.ServeHTTP(w, r)
	})
}
