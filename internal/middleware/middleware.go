package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// RateLimiter enforces a minimum interval between requests per client,
// keyed by the X-Client-ID header. Stale clients are swept lazily.
type RateLimiter struct {
	mu       sync.Mutex
	lastSeen map[string]time.Time
	interval time.Duration
	sweepAt  time.Time
}

func NewRateLimiter(interval time.Duration) *RateLimiter {
	return &RateLimiter{
		lastSeen: make(map[string]time.Time),
		interval: interval,
		sweepAt:  time.Now().Add(sweepEvery),
	}
}

const sweepEvery = 10 * time.Minute

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := c.GetHeader("X-Client-ID")
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "X-Client-ID header required"})
			c.Abort()
			return
		}
		now := time.Now()

		r.mu.Lock()
		if now.After(r.sweepAt) {
			for id, seen := range r.lastSeen {
				if now.Sub(seen) > sweepEvery {
					delete(r.lastSeen, id)
				}
			}
			r.sweepAt = now.Add(sweepEvery)
		}
		last, exists := r.lastSeen[clientID]
		if exists && now.Sub(last) < r.interval {
			r.mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		r.lastSeen[clientID] = now
		r.mu.Unlock()

		c.Next()
	}
}
