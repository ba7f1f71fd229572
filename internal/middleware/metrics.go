package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/tombola/api/internal/monitoring"
)

// Metrics records request counts and latency per route. The pattern
// matched by the mux is used as the path label so that record ids do
// not blow up label cardinality.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		path := r.Pattern
		if path == "" {
			path = r.URL.Path
		}
		monitoring.TrackHTTPRequest(r.Method, path, strconv.Itoa(wrapped.statusCode), time.Since(start).Seconds())
	})
}
