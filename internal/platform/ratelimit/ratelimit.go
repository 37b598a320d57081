// Package ratelimit limits requests per client IP with token buckets.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const idleAfter = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client IP.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*entry
	rate     rate.Limit
	burst    int
	now      func() time.Time

	// trustProxy makes the limiter key on forwarding headers. Only enable
	// it behind a proxy that overwrites them.
	trustProxy bool
}

// PerMinute returns a limiter allowing n requests per minute per IP with the
// given burst. A non-positive n disables limiting.
func PerMinute(n, burst int) *IPLimiter {
	r := rate.Inf
	if n > 0 {
		r = rate.Every(time.Minute / time.Duration(n))
	}
	if burst <= 0 {
		burst = 1
	}
	return New(r, burst)
}

// New returns a limiter allowing r events per second per IP.
func New(r rate.Limit, burst int) *IPLimiter {
	return &IPLimiter{
		limiters: make(map[string]*entry),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

// TrustProxy makes the middleware identify clients by X-Forwarded-For and
// X-Real-IP instead of the connection address.
func (l *IPLimiter) TrustProxy(on bool) *IPLimiter {
	l.trustProxy = on
	return l
}

// Allow reports whether one more request from ip fits the budget.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.limiters[ip]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Sweep forgets IPs idle for more than ten minutes and returns how many
// remain.
func (l *IPLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for ip, e := range l.limiters {
		if now.Sub(e.lastSeen) > idleAfter {
			delete(l.limiters, ip)
		}
	}
	return len(l.limiters)
}

// Run sweeps every minute until done is closed.
func (l *IPLimiter) Run(done <-chan struct{}) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-done:
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// Middleware rejects requests over budget with 429 and a JSON error.
// onReject, if non-nil, is called for each rejected request.
func (l *IPLimiter) Middleware(onReject func()) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(ClientIP(r, l.trustProxy)) {
				if onReject != nil {
					onReject()
				}
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "60")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP returns the connection's remote host. With trustProxy it prefers
// the first X-Forwarded-For hop, then X-Real-IP.
func ClientIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r.RemoteAddr)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.Index(xff, ","); i != -1 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	return remoteHost(r.RemoteAddr)
}

func remoteHost(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}
