package server

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// statusRecorder captures the response status for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// corsMiddleware answers preflight requests, attaches CORS headers, and
// records request metrics for everything that passes through.
func (s *Server) corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", s.corsOrigin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		h.Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		endpoint := metricEndpoint(r.URL.Path)
		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next(sr, r)

		httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(sr.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

// metricEndpoint collapses per-field paths so the metric cardinality stays
// bounded.
func metricEndpoint(path string) string {
	if strings.HasPrefix(path, "/extract/") {
		return "/extract/:field"
	}
	return path
}

// clientKey identifies the requesting client for rate limiting. Proxy
// headers win over the socket address so limits hold behind a load balancer.
func clientKey(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
