package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter is a per-client token bucket with a last-seen timestamp so
// idle entries can be swept from the map.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter hands out one token bucket per client IP, lazily created on
// first request and periodically swept to bound memory under churn from
// many distinct clients.
type ipRateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rps      rate.Limit
	burst    int
}

func newIPRateLimiter(requestsPerSecond float64, burst int) *ipRateLimiter {
	l := &ipRateLimiter{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(requestsPerSecond),
		burst:   burst,
	}
	return l
}

func (l *ipRateLimiter) allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[clientIP]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[clientIP] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// sweep removes entries untouched for longer than idleAfter. Callers run it
// periodically (or not at all for short-lived processes/tests).
func (l *ipRateLimiter) sweep(idleAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-idleAfter)
	for ip, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

func clientIPOf(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}
		if !s.limiter.allow(clientIPOf(r)) {
			s.writeErrorResponse(w, ErrRateLimited.Error(), http.StatusTooManyRequests, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}
