package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/marcolopzx/sis-ventas/internal/httpx"
)

// RateLimit allows max requests per window per client IP, token-bucket style.
// Buckets for idle IPs are dropped after two windows.
func RateLimit(window time.Duration, max int) gin.HandlerFunc {
	type bucket struct {
		lim  *rate.Limiter
		seen time.Time
	}

	var (
		mu      sync.Mutex
		buckets = map[string]*bucket{}
	)
	perSecond := rate.Limit(float64(max) / window.Seconds())

	// occasional sweep so the map does not grow with one-off clients
	sweep := func(now time.Time) {
		for ip, b := range buckets {
			if now.Sub(b.seen) > 2*window {
				delete(buckets, ip)
			}
		}
	}

	var lastSweep time.Time

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()

		mu.Lock()
		b, ok := buckets[ip]
		if !ok {
			b = &bucket{lim: rate.NewLimiter(perSecond, max)}
			buckets[ip] = b
		}
		b.seen = now
		if now.Sub(lastSweep) > window {
			sweep(now)
			lastSweep = now
		}
		allowed := b.lim.Allow()
		mu.Unlock()

		if !allowed {
			httpx.Error(c, http.StatusTooManyRequests, "Too many requests from this IP, please try again later.")
			c.Abort()
			return
		}
		c.Next()
	}
}
