package api

import (
	"net/http"
	"time"

	"github.com/user/hotscan/internal/monitoring"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// requestMetrics records a counter and a duration histogram for every
// request, labelled by method, path and response status.
func requestMetrics(m *monitoring.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)
			m.ObserveHTTPRequest(r.Method, r.URL.Path, sw.status, time.Since(start))
		})
	}
}
