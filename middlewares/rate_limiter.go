package middlewares

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiter is a per-IP sliding window applied to every request.
type RateLimiter struct {
	rate     int
	interval time.Duration
	ips      map[string][]time.Time
	mu       sync.Mutex
}

func NewRateLimiter(rate int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		rate:     rate,
		interval: interval,
		ips:      make(map[string][]time.Time),
	}
}

func (rl *RateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := now.Add(-rl.interval)
	valid := rl.ips[ip][:0]
	for _, t := range rl.ips[ip] {
		if t.After(cutoff) {
			valid = append(valid, t)
		}
	}

	if len(valid) >= rl.rate {
		rl.ips[ip] = valid
		return false
	}
	rl.ips[ip] = append(valid, now)
	return true
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP(), time.Now()) {
			c.AbortWithStatus(http.StatusTooManyRequests)
			return
		}
		c.Next()
	}
}

// StrictRateLimiter throttles credential endpoints with a token bucket per IP.
type StrictRateLimiter struct {
	every    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
}

func NewStrictRateLimiter(every time.Duration, burst int) *StrictRateLimiter {
	return &StrictRateLimiter{
		every:    rate.Every(every),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (sl *StrictRateLimiter) limiter(ip string) *rate.Limiter {
	sl.mu.Lock()
	defer sl.mu.Unlock()

	l, ok := sl.limiters[ip]
	if !ok {
		l = rate.NewLimiter(sl.every, sl.burst)
		sl.limiters[ip] = l
	}
	return l
}

func (sl *StrictRateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sl.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   "Demasiados intentos, espera un momento",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
