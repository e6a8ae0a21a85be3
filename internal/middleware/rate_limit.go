package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"csb/statusboard/internal/metrics"
)

// idleLimiterTTL drops limiters of clients that have gone quiet.
const idleLimiterTTL = 10 * time.Minute

// RateLimiter throttles requests per client IP.
type RateLimiter struct {
	limit   rate.Limit
	burst   int
	exempt  map[string]bool
	metrics *metrics.MetricsRegistry

	mu       sync.Mutex
	limiters *cache.Cache
}

// NewRateLimiter allows rps requests per second with the given burst to each
// client IP. Exempt IPs are never throttled. metricsReg may be nil.
func NewRateLimiter(rps float64, burst int, metricsReg *metrics.MetricsRegistry, exempt ...string) *RateLimiter {
	rl := &RateLimiter{
		limit:    rate.Limit(rps),
		burst:    burst,
		exempt:   make(map[string]bool, len(exempt)),
		metrics:  metricsReg,
		limiters: cache.New(idleLimiterTTL, idleLimiterTTL),
	}
	for _, ip := range exempt {
		rl.exempt[ip] = true
	}
	return rl
}

func (rl *RateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, found := rl.limiters.Get(ip); found {
		limiter := v.(*rate.Limiter)
		// Touch to extend the idle TTL.
		rl.limiters.SetDefault(ip, limiter)
		return limiter
	}
	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters.SetDefault(ip, limiter)
	return limiter
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if rl.exempt[ip] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(ip).Allow() {
			if rl.metrics != nil {
				rl.metrics.HTTPRateLimited.Inc()
			}
			w.Header().Set("Retry-After", "1")
			http.Error(w, "Too many requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
