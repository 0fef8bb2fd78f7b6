package httptransport

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// rateLimiter is a per-key token bucket store, adapted from the teacher's
// internal/scraper/ratelimit.go token-bucket-per-host pattern, applied
// here per client IP/client ID instead of per scrape target host.
type rateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newRateLimiter(perMinute int) *rateLimiter {
	rps := float64(perMinute) / 60.0
	if rps <= 0 {
		rps = 1
	}
	return &rateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rps:      rps,
		burst:    perMinute,
	}
}

func (l *rateLimiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(l.rps), l.burst)
		l.limiters[key] = lim
	}
	return lim
}

// rateLimit gates requests per client IP (or client_id when bearer auth
// ran first), returning 429 once the caller's bucket is exhausted.
func rateLimit(perMinute int) fiber.Handler {
	limiter := newRateLimiter(perMinute)
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if clientID, ok := c.Locals("client_id").(string); ok && clientID != "" {
			key = clientID
		}

		if !limiter.get(key).Allow() {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
			})
		}
		return c.Next()
	}
}
