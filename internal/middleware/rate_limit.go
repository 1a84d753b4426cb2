package middleware

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"gadget-server/internal/schemas"
	"gadget-server/internal/utils"
)

const visitorIdleTimeout = 30 * time.Minute

// IPRateLimiter keeps a token bucket per client IP.
type IPRateLimiter struct {
	visitors    sync.Map
	limit       rate.Limit
	burst       int
	lastCleanup atomic.Int64
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

// NewIPRateLimiter allows requests per window and client, all of them usable at once.
func NewIPRateLimiter(requests int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		limit: rate.Every(window / time.Duration(requests)),
		burst: requests,
	}
	l.lastCleanup.Store(time.Now().UnixNano())
	return l
}

func (l *IPRateLimiter) getLimiter(ip string, now time.Time) *rate.Limiter {
	l.cleanupVisitors(now)

	v, _ := l.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(l.limit, l.burst)})
	vi := v.(*visitor)
	vi.lastSeen.Store(now.UnixNano())
	return vi.limiter
}

// cleanupVisitors drops idle visitors, at most once per minute.
func (l *IPRateLimiter) cleanupVisitors(now time.Time) {
	last := l.lastCleanup.Load()
	if now.UnixNano()-last < int64(time.Minute) || !l.lastCleanup.CompareAndSwap(last, now.UnixNano()) {
		return
	}

	cutoff := now.Add(-visitorIdleTimeout).UnixNano()
	l.visitors.Range(func(k, v interface{}) bool {
		if v.(*visitor).lastSeen.Load() < cutoff {
			l.visitors.Delete(k)
		}
		return true
	})
}

// RateLimit answers 429 once a client exceeds its budget.
func (l *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" {
			ip = "unknown"
		}

		if !l.getLimiter(ip, time.Now()).Allow() {
			utils.WriteAndLogError(c, schemas.TooManyRequests, errors.New("rate limit exceeded for "+ip))
			return
		}
		c.Next()
	}
}
