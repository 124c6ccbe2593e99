// Package ratelimit provides per-client request throttling for the API.
//
// A token bucket is kept per client IP. Buckets idle past the reap interval
// are dropped so the map does not grow without bound under address churn.
package ratelimit

import (
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config controls the per-IP limiter.
type Config struct {
	// RPS is the sustained request rate per client. Zero or negative
	// disables limiting.
	RPS float64
	// Burst is the bucket depth per client.
	Burst int
	// TrustProxy enables reading the client IP from X-Forwarded-For and
	// X-Real-IP. Only set behind a trusted reverse proxy.
	TrustProxy bool
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter hands out one token bucket per client IP.
type IPLimiter struct {
	cfg Config

	mu      sync.Mutex
	clients map[string]*clientBucket
}

const reapAfter = 10 * time.Minute

// NewIPLimiter builds a limiter and starts its background reaper.
func NewIPLimiter(cfg Config) *IPLimiter {
	l := &IPLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientBucket),
	}
	if cfg.RPS > 0 {
		go l.reapLoop()
	}
	return l
}

// Allow reports whether a request from ip may proceed now.
func (l *IPLimiter) Allow(ip string) bool {
	if l.cfg.RPS <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.clients[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(l.cfg.RPS), l.cfg.Burst)}
		l.clients[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *IPLimiter) reapLoop() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-reapAfter)
		l.mu.Lock()
		for ip, b := range l.clients {
			if b.lastSeen.Before(cutoff) {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

// Middleware rejects over-limit requests with 429. Probe and metrics paths
// are never limited.
func (l *IPLimiter) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/healthz", "/readyz", "/metrics":
				next.ServeHTTP(w, r)
				return
			}

			ip := ClientIP(r, l.cfg.TrustProxy)
			if !l.Allow(ip) {
				logger.Warn("rate limit exceeded", "client_ip", ip, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP extracts the requesting client's IP. With trustProxy, the
// leftmost X-Forwarded-For entry wins, then X-Real-IP, then RemoteAddr.
func ClientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if i := strings.IndexByte(xff, ','); i > 0 {
				xff = xff[:i]
			}
			if ip := strings.TrimSpace(xff); ip != "" {
				return ip
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
