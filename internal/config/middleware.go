package config

import "time"

// RateLimitConfig tunes the Redis token bucket applied to every request.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillTokens   int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// LoadRateLimitConfig reads the rate limiter settings with sane
// defaults: 60 requests burst, one token back per second.
func LoadRateLimitConfig() RateLimitConfig {
	cfg := RateLimitConfig{
		Enabled:        envBool("RATE_LIMIT_ENABLED", true),
		Capacity:       envInt("RATE_LIMIT_CAPACITY", 60),
		RefillTokens:   envInt("RATE_LIMIT_REFILL_TOKENS", 1),
		RefillInterval: envDur("RATE_LIMIT_REFILL_INTERVAL", time.Second),
		TTL:            envDur("RATE_LIMIT_TTL", 10*time.Minute),
		Prefix:         envStr("RATE_LIMIT_PREFIX", "rl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if min := 5 * cfg.RefillInterval; cfg.TTL < min {
		cfg.TTL = min
	}
	return cfg
}

// CacheConfig tunes the Redis response cache on the list endpoints.
type CacheConfig struct {
	Enabled  bool
	TTL      time.Duration
	Prefix   string
	MaxBytes int64
}

// LoadCacheConfig reads the response cache settings. The short default
// TTL keeps the day's book fresh while absorbing bursts.
func LoadCacheConfig() CacheConfig {
	cfg := CacheConfig{
		Enabled:  envBool("CACHE_ENABLED", true),
		TTL:      envDur("CACHE_TTL", 10*time.Second),
		Prefix:   envStr("CACHE_PREFIX", "cache"),
		MaxBytes: int64(envInt("CACHE_MAX_BYTES", 1<<20)),
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 10 * time.Second
	}
	return cfg
}
