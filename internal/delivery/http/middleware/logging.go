package middleware

import (
	"log/slog"
	"net/http"
	"time"
)

// RequestObserver records request latency. *monitoring.Metrics implements it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, d time.Duration)
}

// responseWriter wraps http.ResponseWriter to capture status code and bytes written.
type responseWriter struct {
	http.ResponseWriter
	status  int
	written int64
}

func (w *responseWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (n int, err error) {
	n, err = w.ResponseWriter.Write(b)
	w.written += int64(n)
	return n, err
}

// LoggingMiddleware logs each request with method, path, route, status, and duration,
// and reports it to observer when one is given. It does not log request or response bodies.
func LoggingMiddleware(logger *slog.Logger, observer RequestObserver, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start)
		// ServeMux sets Pattern on r once it has matched a route.
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", r.Pattern,
			"status", wrapped.status,
			"bytes", wrapped.written,
			"duration_ms", duration.Milliseconds(),
		)
		if observer != nil {
			observer.ObserveRequest(r.Method, r.Pattern, wrapped.status, duration)
		}
	})
}
