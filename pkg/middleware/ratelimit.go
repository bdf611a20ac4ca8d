package middleware

import (
	"net"
	"net/http"
	"sync"

	"yamdb/pkg/utils"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client address. The table is an
// LRU so idle clients are evicted instead of growing without bound.
type RateLimiter struct {
	limiters *lru.Cache[string, *rate.Limiter]
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	logger   *zap.Logger
}

func NewRateLimiter(cfg utils.RateLimitConfig, logger *zap.Logger) (*RateLimiter, error) {
	size := cfg.Clients
	if size <= 0 {
		size = 10000
	}
	cache, err := lru.New[string, *rate.Limiter](size)
	if err != nil {
		return nil, err
	}

	return &RateLimiter{
		limiters: cache,
		rate:     rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		logger:   logger,
	}, nil
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Add(key, limiter)
	}
	return limiter
}

// Handler rejects requests over the limit with 429.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)

		if !rl.getLimiter(key).Allow() {
			rl.logger.Warn("Rate limit exceeded",
				zap.String("client", key),
				zap.String("path", r.URL.Path),
			)
			utils.ResponseTooManyRequests(w, "Too many requests")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
