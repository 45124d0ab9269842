package ratelimit

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "chess:ratelimit:"

// Redis shares windows between server instances. The first hit of a window
// sets the key expiry; later hits only increment.
type Redis struct {
	rdb *redis.Client
	cfg Config
}

func NewRedis(rdb *redis.Client, cfg Config) *Redis {
	return &Redis{rdb: rdb, cfg: cfg.Normalize()}
}

func (r *Redis) key(k string) string { return redisKeyPrefix + strings.TrimSpace(k) }

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	k := r.key(key)

	pipe := r.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pttl := pipe.PTTL(ctx, k)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, fmt.Errorf("ratelimit incr: %w", err)
	}

	count := int(incr.Val())
	ttl := pttl.Val()
	if ttl < 0 {
		if err := r.rdb.PExpire(ctx, k, r.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("ratelimit expire: %w", err)
		}
		ttl = r.cfg.Window
	}

	if count > r.cfg.MaxRequests {
		return Decision{Count: count - 1, RetryAfter: ttl}, nil
	}
	return Decision{
		Allowed:   true,
		Count:     count,
		Remaining: r.cfg.MaxRequests - count,
	}, nil
}
