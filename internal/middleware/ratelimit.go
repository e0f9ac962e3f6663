// Package middleware holds the Redis-backed HTTP middleware: a token
// bucket rate limiter and a response cache for the list endpoints.
package middleware

import (
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-reservation/internal/config"
)

// tokenBucket refills and debits the bucket atomically inside Redis so
// concurrent replicas share one budget per client.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local refill = tonumber(ARGV[3])
	local interval_ms = tonumber(ARGV[4])
	local ttl = tonumber(ARGV[5])

	local state = redis.call('HMGET', key, 'tokens', 'refilled_ms')
	local tokens = tonumber(state[1])
	local refilled = tonumber(state[2])
	if tokens == nil or refilled == nil then
		tokens = capacity
		refilled = now_ms
	end

	local intervals = math.floor(math.max(0, now_ms - refilled) / interval_ms)
	if intervals > 0 then
		tokens = math.min(capacity, tokens + intervals * refill)
		refilled = refilled + intervals * interval_ms
	end

	local allowed = 0
	local retry_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_ms = math.max(0, interval_ms - (now_ms - refilled))
	end

	redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
	redis.call('EXPIRE', key, ttl)
	return {allowed, retry_ms}
`)

// RateLimit returns a token bucket limiter keyed by client IP and route.
// With rate limiting disabled or Redis down the middleware passes every
// request through; on Redis errors it fails open.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := strings.Join([]string{cfg.Prefix, c.RealIP(), c.Request().Method, c.Path()}, ":")
			now := time.Now().UnixMilli()
			ttl := int(math.Ceil(cfg.TTL.Seconds()))

			raw, err := tokenBucket.Run(c.Request().Context(), rdb, []string{key},
				now, cfg.Capacity, cfg.RefillTokens, cfg.RefillInterval.Milliseconds(), ttl).Result()
			if err != nil {
				return next(c)
			}

			reply, ok := raw.([]interface{})
			if !ok || len(reply) != 2 {
				return next(c)
			}
			allowed, _ := reply[0].(int64)
			retryMs, _ := reply[1].(int64)

			if allowed == 1 {
				return next(c)
			}
			retry := time.Duration(retryMs) * time.Millisecond
			c.Response().Header().Set("Retry-After", fmt.Sprintf("%d", int(math.Ceil(retry.Seconds()))))
			return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
		}
	}
}
