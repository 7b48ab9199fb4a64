package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"gymdesk/internal/api"
)

// visitorLimiter keeps one token bucket per client IP. Entries idle for
// longer than ttl are dropped by the cleanup loop.
type visitorLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	rate    rate.Limit
	burst   int
	ttl     time.Duration
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newVisitorLimiter(rps float64, burst int, ttl time.Duration) *visitorLimiter {
	vl := &visitorLimiter{
		buckets: make(map[string]*bucket),
		rate:    rate.Limit(rps),
		burst:   burst,
		ttl:     ttl,
	}

	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			vl.evictStale()
		}
	}()

	return vl
}

func (vl *visitorLimiter) evictStale() {
	vl.mu.Lock()
	defer vl.mu.Unlock()
	for ip, b := range vl.buckets {
		if time.Since(b.lastSeen) > vl.ttl {
			delete(vl.buckets, ip)
		}
	}
}

func (vl *visitorLimiter) allow(ip string) bool {
	vl.mu.Lock()
	b, ok := vl.buckets[ip]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(vl.rate, vl.burst)}
		vl.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	vl.mu.Unlock()

	return b.limiter.Allow()
}

func RateLimitMiddleware(rps float64, burst int) gin.HandlerFunc {
	limiter := newVisitorLimiter(rps, burst, 3*time.Minute)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
