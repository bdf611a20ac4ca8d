package middleware

import (
	"net/http"
	"strconv"
	"time"

	"yamdb/internal/metrics"

	"github.com/go-chi/chi/v5"
)

// Metrics records request latency labelled by the matched chi route
// pattern, so ids in the path do not explode label cardinality.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := wrap(w)

			next.ServeHTTP(rw, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, route, strconv.Itoa(rw.statusCode)).
				Observe(time.Since(start).Seconds())
		})
	}
}
