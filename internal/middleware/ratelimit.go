package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

// RateLimiter applies a per-client-IP token bucket. Check-in retries from a
// flaky client are expected; hammering is not.
type RateLimiter struct {
	perMinute int
	burst     int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	if burst < 1 {
		burst = 1
	}

	return &RateLimiter{
		perMinute: perMinute,
		burst:     burst,
		clients:   map[string]*clientLimiter{},
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	limit := rate.Every(time.Minute / time.Duration(rl.perMinute))

	return func(c *gin.Context) {
		limiter := rl.getLimiter(c.ClientIP(), limit)

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) getLimiter(key string, limit rate.Limit) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.cleanupLocked()

	if client, ok := rl.clients[key]; ok {
		client.expires = time.Now().Add(5 * time.Minute)
		return client.limiter
	}

	client := &clientLimiter{
		limiter: rate.NewLimiter(limit, rl.burst),
		expires: time.Now().Add(5 * time.Minute),
	}
	rl.clients[key] = client
	return client.limiter
}

func (rl *RateLimiter) cleanupLocked() {
	now := time.Now()
	for key, client := range rl.clients {
		if now.After(client.expires) {
			delete(rl.clients, key)
		}
	}
}
