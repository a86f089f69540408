package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const limiterCleanupInterval = 5 * time.Minute

// ipRateLimiter keeps one token bucket per client IP.
type ipRateLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (rl *ipRateLimiter) get(key string) *rate.Limiter {
	if l, ok := rl.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}
	actual, _ := rl.limiters.LoadOrStore(key, rate.NewLimiter(rl.rate, rl.burst))
	rl.maybeCleanup()
	return actual.(*rate.Limiter)
}

// maybeCleanup drops limiters whose bucket is full again, i.e. idle clients.
func (rl *ipRateLimiter) maybeCleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if time.Since(rl.lastCleanup) < limiterCleanupInterval {
		return
	}
	rl.lastCleanup = time.Now()

	rl.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(rl.burst) {
			rl.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitPerIP allows perMinute requests per client IP, all of them
// available as a burst. A non-positive perMinute disables the limiter.
func RateLimitPerIP(perMinute int) echo.MiddlewareFunc {
	if perMinute <= 0 {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	rl := &ipRateLimiter{
		rate:        rate.Limit(float64(perMinute) / time.Minute.Seconds()),
		burst:       perMinute,
		lastCleanup: time.Now(),
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.get(c.RealIP())
			if !limiter.Allow() {
				r := limiter.Reserve()
				delay := r.Delay()
				r.Cancel()

				retryAfter := max(int(delay.Seconds()), 1)
				c.Response().Header().Set("Retry-After", strconv.Itoa(retryAfter))
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests. Try again later.")
			}
			return next(c)
		}
	}
}
