package rbac

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/middleware"
)

func request(role string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if role != "" {
		req = req.WithContext(middleware.WithIdentity(req.Context(), 1, role))
	}
	return req
}

func TestRequireAllowsListedRole(t *testing.T) {
	rec := httptest.NewRecorder()
	Require("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, request("admin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRejectsOtherRoles(t *testing.T) {
	for _, role := range []string{"user", ""} {
		rec := httptest.NewRecorder()
		Require("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not run")
		})).ServeHTTP(rec, request(role))
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %q", role)
	}
}
