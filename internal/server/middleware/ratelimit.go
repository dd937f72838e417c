package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimit returns middleware that applies per-client fixed-window rate
// limiting. Each unique client IP is limited to `limit` requests per
// `window` duration. A limit of 0 disables the middleware.
func RateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	limiter := &windowLimiter{
		counts: make(map[string]*windowCount),
		limit:  limit,
		window: window,
	}

	return func(next http.Handler) http.Handler {
		if limit <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow(extractClientIP(r)) {
				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"rate limit exceeded"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// windowLimiter counts requests per client within a fixed window. Stale
// entries are dropped when a new window starts and the map has grown large.
type windowLimiter struct {
	mu     sync.Mutex
	counts map[string]*windowCount
	limit  int
	window time.Duration
}

type windowCount struct {
	n     int
	start time.Time
}

func (l *windowLimiter) allow(key string) bool {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	wc, ok := l.counts[key]
	if !ok || now.Sub(wc.start) >= l.window {
		if len(l.counts) > 1024 {
			for k, v := range l.counts {
				if now.Sub(v.start) >= l.window {
					delete(l.counts, k)
				}
			}
		}
		l.counts[key] = &windowCount{n: 1, start: now}
		return true
	}

	wc.n++
	return wc.n <= l.limit
}

// extractClientIP attempts to determine the real client IP from standard
// proxy headers, falling back to the direct remote address.
func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.SplitN(xff, ",", 2)
		ip := strings.TrimSpace(parts[0])
		if ip != "" {
			return ip
		}
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
