package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	resp "syriazone/internal/transport/http/response"
)

// RateLimit 全局令牌桶限速
func RateLimit(rps rate.Limit, burst int) gin.HandlerFunc {
	lim := rate.NewLimiter(rps, burst)
	return func(c *gin.Context) {
		if lim.Allow() {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}

type ipBucket struct {
	lim  *rate.Limiter
	seen time.Time
}

const (
	ipBucketIdle  = 5 * time.Minute
	ipBucketSweep = 10000
)

// RateLimitPerIP 每 IP 限速；桶数过多时清理空闲 IP
func RateLimitPerIP(rps rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	buckets := make(map[string]*ipBucket)
	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			if len(buckets) >= ipBucketSweep {
				for k, v := range buckets {
					if now.Sub(v.seen) > ipBucketIdle {
						delete(buckets, k)
					}
				}
			}
			b = &ipBucket{lim: rate.NewLimiter(rps, burst)}
			buckets[ip] = b
		}
		b.seen = now
		allowed := b.lim.AllowN(now, 1)
		mu.Unlock()

		if allowed {
			c.Next()
			return
		}
		resp.Abort(c, resp.CodeTooManyRequests, "too many requests")
	}
}
