package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket each.
// Clients idle longer than it takes a bucket to refill are dropped; a fresh
// bucket behaves identically.
type RateLimiter struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	clients   map[string]*client
	now       func() time.Time
}

// NewRateLimiter allows perMinute requests per client with the given burst.
func NewRateLimiter(perMinute, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	every := time.Minute / time.Duration(max(perMinute, 1))
	return &RateLimiter{
		limit:   rate.Every(every),
		burst:   burst,
		idle:    max(every*time.Duration(burst), time.Minute),
		clients: make(map[string]*client),
		now:     time.Now,
	}
}

func (l *RateLimiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.idle {
		l.sweep(now)
	}
	cl, ok := l.clients[key]
	if !ok {
		cl = &client{lim: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = cl
	}
	cl.seen = now
	return cl.lim.AllowN(now, 1)
}

func (l *RateLimiter) sweep(now time.Time) {
	for key, cl := range l.clients {
		if now.Sub(cl.seen) >= l.idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// Handler rejects over-limit requests with 429 and a failure envelope.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "Too many requests"})
			return
		}
		c.Next()
	}
}
