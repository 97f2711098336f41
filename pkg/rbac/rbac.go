// Package rbac provides role checks layered on top of the auth middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/bazaar/pkg/middleware"
	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// Require returns middleware that allows only the listed roles. It must run
// after middleware.Auth so the role is present in the request context.
func Require(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := middleware.RoleFromCtx(r)
			if _, ok := allowed[role]; !ok {
				response.Forbidden(w, "Access denied: insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
