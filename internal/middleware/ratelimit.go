package middleware

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
)

// RateLimitConfig defines the limit for a specific route or group.
type RateLimitConfig struct {
	Max    int                      // Maximum requests allowed in the window
	Window time.Duration            // Time window for the limit
	KeyFn  func(c fiber.Ctx) string // Returns the key to rate limit on (owner, IP)
}

// window tracks request count and window end for a single key.
type window struct {
	count int
	until time.Time
}

// RateLimiter is an in-memory fixed-window rate limiter.
type RateLimiter struct {
	mu      sync.Mutex
	windows map[string]*window
	config  RateLimitConfig
}

// NewRateLimiter creates a rate limiter with the given config.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	rl := &RateLimiter{
		windows: make(map[string]*window),
		config:  cfg,
	}
	// Background cleanup every 5 minutes
	go rl.cleanup()
	return rl
}

// Handler returns a Fiber middleware handler that enforces the rate limit.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		key := rl.config.KeyFn(c)

		rl.mu.Lock()
		now := time.Now()
		w, exists := rl.windows[key]
		if !exists || now.After(w.until) {
			w = &window{count: 1, until: now.Add(rl.config.Window)}
			rl.windows[key] = w
			rl.mu.Unlock()

			setRateLimitHeaders(c, rl.config.Max, rl.config.Max-1, w.until)
			return c.Next()
		}

		w.count++
		remaining := rl.config.Max - w.count
		rl.mu.Unlock()

		setRateLimitHeaders(c, rl.config.Max, max(remaining, 0), w.until)

		if remaining < 0 {
			retryAfter := int(time.Until(w.until).Seconds()) + 1
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": fiber.Map{
					"code":       "RATE_LIMITED",
					"message":    fmt.Sprintf("Too many requests. Try again in %d seconds.", retryAfter),
					"retryAfter": retryAfter,
				},
			})
		}

		return c.Next()
	}
}

// Allow checks if a request with the given key is allowed (for testing).
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	w, exists := rl.windows[key]
	if !exists || now.After(w.until) {
		rl.windows[key] = &window{count: 1, until: now.Add(rl.config.Window)}
		return true
	}

	w.count++
	return w.count <= rl.config.Max
}

func setRateLimitHeaders(c fiber.Ctx, limit, remaining int, resetAt time.Time) {
	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", limit))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(remaining, 0)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", resetAt.Unix()))
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		now := time.Now()
		for key, w := range rl.windows {
			if now.After(w.until) {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// KeyByOwner rate limits on the owner identity, falling back to IP for
// requests that carry no owner header.
func KeyByOwner(c fiber.Ctx) string {
	if owner := c.Get(OwnerHeader); owner != "" {
		return "owner:" + owner
	}
	return "ip:" + c.IP()
}

// KeyByIP returns the client IP as the rate limit key.
func KeyByIP(c fiber.Ctx) string {
	return "ip:" + c.IP()
}

// --- Pre-configured rate limiters ---

// NewSyncRateLimiter: 2 req/min per owner. Batches are heavy (sequential
// upserts with pacing), so callers are expected to sync rarely.
func NewSyncRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    2,
		Window: time.Minute,
		KeyFn:  KeyByOwner,
	})
}

// NewReportRateLimiter: 30 req/min per owner.
func NewReportRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    30,
		Window: time.Minute,
		KeyFn:  KeyByOwner,
	})
}

// NewAdminRateLimiter: 10 req/min per owner for delete operations.
func NewAdminRateLimiter() *RateLimiter {
	return NewRateLimiter(RateLimitConfig{
		Max:    10,
		Window: time.Minute,
		KeyFn:  KeyByOwner,
	})
}
