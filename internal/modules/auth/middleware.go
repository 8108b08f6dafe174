package auth

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

// emailContextKey stores the authenticated email on the request context
const emailContextKey contextKey = "auth_email"

// Middleware verifies the Authorization bearer token on protected routes.
// A _token query parameter is accepted as a fallback for WebSocket
// connections, which cannot set custom headers from the browser.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString := ""

		if header := r.Header.Get("Authorization"); header != "" {
			tokenString = strings.TrimPrefix(header, "Bearer ")
			if tokenString == header {
				http.Error(w, "Invalid authorization format", http.StatusUnauthorized)
				return
			}
		}

		if tokenString == "" {
			tokenString = r.URL.Query().Get("_token")
		}

		if tokenString == "" {
			http.Error(w, "Missing authorization", http.StatusUnauthorized)
			return
		}

		claims, err := s.ValidateToken(tokenString)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), emailContextKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EmailFromContext returns the authenticated email, or "" when absent
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailContextKey).(string)
	return email
}
