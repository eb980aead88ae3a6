package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Fixed-window limits, one Redis key per (subject, action) with a 60s TTL:
// - ratelimit:{ip}:login      - login attempts per minute
// - ratelimit:{user_id}:send  - message/notification sends per minute

type RateLimitConfig struct {
	LoginPerMinute int
	SendPerMinute  int
}

func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		LoginPerMinute: 10,
		SendPerMinute:  60,
	}
}

type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

type RateLimiter struct {
	client *goredis.Client
	cfg    RateLimitConfig
}

func NewRateLimiter(client *goredis.Client, cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{client: client, cfg: cfg}
}

func (rl *RateLimiter) AllowLogin(ctx context.Context, clientIP string) (*RateLimitResult, error) {
	return rl.allow(ctx, fmt.Sprintf("ratelimit:%s:login", clientIP), rl.cfg.LoginPerMinute)
}

func (rl *RateLimiter) AllowSend(ctx context.Context, userID string) (*RateLimitResult, error) {
	return rl.allow(ctx, fmt.Sprintf("ratelimit:%s:send", userID), rl.cfg.SendPerMinute)
}

func (rl *RateLimiter) allow(ctx context.Context, key string, limit int) (*RateLimitResult, error) {
	window := time.Minute

	pipe := rl.client.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, window)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	count := int(incr.Val())
	ttl, err := rl.client.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		ttl = window
	}

	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: remaining,
		ResetIn:   ttl,
	}, nil
}
