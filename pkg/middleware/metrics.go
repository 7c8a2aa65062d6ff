package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"coachbooking/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HTTPMetrics records request counts and latency per method and route.
func HTTPMetrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			metrics.RecordHTTPRequest(
				r.Method,
				routeLabel(r.URL.Path),
				strconv.Itoa(wrapped.statusCode),
				time.Since(start).Seconds(),
			)
		})
	}
}

// routeLabel replaces ObjectID path segments with ":id" to bound label
// cardinality.
func routeLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if primitive.IsValidObjectID(s) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
