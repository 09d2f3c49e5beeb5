package auth

import (
	"context"
	"net/http"
	"strings"

	"motoyard/internal/models"
)

type ctxKey string

const claimsKey ctxKey = "authClaims"

// Middleware verifies the Authorization bearer token and puts the
// claims on the request context.
func Middleware(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "missing bearer token", nil)
				return
			}
			claims, err := ParseToken(cfg, raw)
			if err != nil {
				models.WriteProblem(w, http.StatusUnauthorized,
					"Unauthorized", "invalid or expired token", nil)
				return
			}
			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFrom returns the verified claims, or nil outside the middleware.
func ClaimsFrom(r *http.Request) *Claims {
	c, _ := r.Context().Value(claimsKey).(*Claims)
	return c
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
