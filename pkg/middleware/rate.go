package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/shashiranjanraj/bazaar/pkg/response"
)

// RateLimit applies a fixed-window per-IP limit. Windows are cleaned up
// lazily; memory stays bounded by the number of active clients per window.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	type bucket struct {
		count   int
		resetAt time.Time
	}

	var (
		mu      sync.Mutex
		buckets = make(map[string]*bucket)
	)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			now := time.Now()
			mu.Lock()
			b, ok := buckets[ip]
			if !ok || now.After(b.resetAt) {
				b = &bucket{resetAt: now.Add(window)}
				buckets[ip] = b
				// Drop expired buckets opportunistically.
				for k, v := range buckets {
					if now.After(v.resetAt) {
						delete(buckets, k)
					}
				}
			}
			b.count++
			exceeded := b.count > limit
			mu.Unlock()

			if exceeded {
				response.Error(w, http.StatusTooManyRequests, "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
