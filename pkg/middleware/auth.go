package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/bazaar/config"
	"github.com/shashiranjanraj/bazaar/pkg/auth"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

type ctxKey string

const (
	userIDKey ctxKey = "auth.user_id"
	roleKey   ctxKey = "auth.role"
)

// Auth authenticates the request from the auth cookie (or an Authorization
// Bearer header as a fallback) and injects the user identity into the
// request context. Requests without a valid token get 401.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := tokenFromRequest(r)
		if token == "" {
			response.Unauthorized(w, "Unauthorized: No token provided")
			return
		}
		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Unauthorized(w, "Unauthorized: Invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, claims.UserID)
		ctx = context.WithValue(ctx, roleKey, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(config.AuthCookieName()); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// UserIDFromCtx returns the authenticated user's ID, or 0 when the request
// did not pass through Auth.
func UserIDFromCtx(r *http.Request) uint {
	id, _ := r.Context().Value(userIDKey).(uint)
	return id
}

// RoleFromCtx returns the authenticated user's role, or "" when absent.
func RoleFromCtx(r *http.Request) string {
	role, _ := r.Context().Value(roleKey).(string)
	return role
}

// WithIdentity returns a context carrying the given identity. Used by tests
// and background jobs that act on behalf of a user.
func WithIdentity(ctx context.Context, userID uint, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}
