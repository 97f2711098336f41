// Package metrics exposes Prometheus instrumentation for the HTTP layer
// and a handful of domain counters.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	requestsTotal = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_http_requests_total",
		Help: "HTTP requests by method, path pattern and status.",
	}, []string{"method", "path", "status"})

	requestDuration = promauto.With(registry).NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bazaar_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	// OrdersPlaced counts successful checkouts.
	OrdersPlaced = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "bazaar_orders_placed_total",
		Help: "Orders created through checkout.",
	})

	// OTPIssued counts one-time passcodes generated.
	OTPIssued = promauto.With(registry).NewCounter(prometheus.CounterOpts{
		Name: "bazaar_otp_issued_total",
		Help: "One-time passcodes issued for email verification.",
	})

	// QueueJobs counts processed background jobs by outcome.
	QueueJobs = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_queue_jobs_total",
		Help: "Background jobs processed by name and outcome.",
	}, []string{"job", "outcome"})

	// CacheHits counts read-through catalog cache hits and misses.
	CacheHits = promauto.With(registry).NewCounterVec(prometheus.CounterOpts{
		Name: "bazaar_cache_lookups_total",
		Help: "Catalog cache lookups by outcome.",
	}, []string{"outcome"})
)

func init() {
	registry.MustRegister(prometheus.NewGoCollector())
}

// Handler serves the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency. Path patterns come from
// the router's matched route, not the raw URL, to bound cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := routePattern(r)
		requestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(sw.status)).Inc()
		requestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rc := chiRouteContext(r); rc != "" {
		return rc
	}
	return "unmatched"
}
