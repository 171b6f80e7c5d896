// internal/auth/middleware.go

package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/orbitstudy/orbit-backend/internal/common/utils"
)

type Middleware struct {
	service Service
}

func NewMiddleware(service Service) *Middleware {
	return &Middleware{service: service}
}

// Authenticate verifies the bearer token and puts the caller's identity
// on the request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := extractToken(r)
		if token == "" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Missing or invalid authorization header")
			return
		}

		claims, err := m.service.ValidateToken(r.Context(), token)
		if err != nil {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		if claims.Type != "access" {
			utils.RespondWithError(w, http.StatusUnauthorized, "Invalid token type")
			return
		}

		ctx := context.WithValue(r.Context(), "userID", claims.UserID)
		ctx = context.WithValue(ctx, "username", claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		// WebSocket clients cannot set headers from the browser; allow
		// the token as a query parameter there.
		return r.URL.Query().Get("token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// GetUserIDFromContext extracts the authenticated user id.
func GetUserIDFromContext(ctx context.Context) (int64, bool) {
	userID, ok := ctx.Value("userID").(int64)
	return userID, ok
}
