package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// chiRouteContext returns the matched route pattern when the request went
// through a chi router.
func chiRouteContext(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return ""
	}
	return rctx.RoutePattern()
}
