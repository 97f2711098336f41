package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNamedRoutes(t *testing.T) {
	r := New()
	r.Get("/products/{id}", "products.show", ok)

	path, found := r.Path("products.show")
	require.True(t, found)
	assert.Equal(t, "/products/{id}", path)

	url, err := r.URL("products.show", map[string]string{"id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "/products/7", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err, "missing params must not build a URL")

	_, err = r.URL("nope", nil)
	assert.Error(t, err)
}

func TestGroupPrefixes(t *testing.T) {
	r := New()
	api := r.Group("/api")
	admin := api.Group("/admin")
	admin.Post("/categories", "admin.categories.store", ok)

	path, found := r.Path("admin.categories.store")
	require.True(t, found)
	assert.Equal(t, "/api/admin/categories", path)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/categories", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMethodsAreDistinct(t *testing.T) {
	r := New()
	r.Get("/cart", "cart.show", ok)
	r.Patch("/products/{id}", "products.update", ok)

	req := httptest.NewRequest(http.MethodDelete, "/cart", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	req = httptest.NewRequest(http.MethodPatch, "/products/3", nil)
	rec = httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGroupMiddlewareApplies(t *testing.T) {
	var order []string
	mw := func(tag string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, tag)
				next.ServeHTTP(w, r)
			})
		}
	}

	r := New()
	g := r.Group("/api", mw("group"))
	g.Get("/x", "x", ok, mw("route"))

	req := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	r.Handler().ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, []string{"group", "route"}, order)
}

func TestRoutesListing(t *testing.T) {
	r := New()
	r.Get("/a", "a", ok)
	r.Post("/b", "b", ok)

	infos := r.Routes()
	require.Len(t, infos, 2)
	assert.Equal(t, http.MethodGet, infos[0].Method)
	assert.Equal(t, "/a", infos[0].Path)
	assert.Equal(t, "b", infos[1].Name)
}
