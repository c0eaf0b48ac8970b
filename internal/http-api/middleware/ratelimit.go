package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const staleAfter = 3 * time.Minute

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per client IP token bucket.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	rps     rate.Limit
	burst   int
	now     func() time.Time
}

func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		clients: make(map[string]*client),
		rps:     rate.Limit(rps),
		burst:   burst,
		now:     time.Now,
	}
}

// Allow consumes a token for ip.
func (l *RateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cl, ok := l.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.clients[ip] = cl
	}
	cl.lastSeen = l.now()
	return cl.limiter.AllowN(cl.lastSeen, 1)
}

// Sweep forgets clients idle for longer than three minutes.
func (l *RateLimiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-staleAfter)
	for ip, cl := range l.clients {
		if cl.lastSeen.Before(cutoff) {
			delete(l.clients, ip)
		}
	}
}

// Run sweeps every minute until ctx is done.
func (l *RateLimiter) Run(ctx context.Context) {
	t := time.NewTicker(time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Sweep()
		}
	}
}

// Handler rejects requests over the limit with 429.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
