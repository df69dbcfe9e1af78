package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// requestID tags every request with an ID for log correlation. An inbound
// X-Request-ID from a trusted proxy is kept.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

// corsPolicy implements origin-allowlist CORS. The API is cookie-free for
// cross-origin callers, so no credentials are ever allowed.
type corsPolicy struct {
	allowed map[string]bool
	any     bool
}

func newCORSPolicy(origins []string) *corsPolicy {
	p := &corsPolicy{allowed: make(map[string]bool)}
	for _, o := range origins {
		if o == "*" {
			p.any = true
			continue
		}
		p.allowed[o] = true
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	return p.any || p.allowed[origin]
}

func (p *corsPolicy) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && p.allows(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Set("Access-Control-Max-Age", "600")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for request metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// observe records request counters, durations and an access log line.
func (h *Handler) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		elapsed := time.Since(start)

		route := r.URL.Path
		if h.metrics != nil {
			h.metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
			h.metrics.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
		}

		h.logger.Debug().
			Str("request_id", r.Header.Get("X-Request-ID")).
			Str("method", r.Method).
			Str("path", route).
			Int("status", rec.status).
			Dur("elapsed", elapsed).
			Msg("request")
	})
}
