package http

import (
	"net/http"
	"strings"
	"time"
)

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// WithMetrics records one measurement per request, labelled by the console
// route pattern.
func WithMetrics(next http.Handler, metrics *Metrics) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		metrics.RecordRequest(r.Context(), r.Method, RoutePattern(r.URL.Path), rec.status, time.Since(start))
	})
}

// RoutePattern collapses path parameters in the console routes so every
// order id, product id, and category key maps onto a fixed set of labels.
func RoutePattern(path string) string {
	switch {
	case path == "/v1/orders/filter":
		return path
	case strings.HasPrefix(path, "/v1/orders/"):
		if strings.HasSuffix(path, "/status") {
			return "/v1/orders/{id}/status"
		}
		return "/v1/orders/{id}"
	case strings.HasPrefix(path, "/v1/products/"):
		return "/v1/products/{id}"
	case strings.HasPrefix(path, "/v1/categories/"):
		if strings.HasSuffix(path, "/position") {
			return "/v1/categories/{key}/position"
		}
		return "/v1/categories/{key}"
	}
	return path
}
