package ratelimiter

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// takeScript increments the window counter and starts the window on the
// first hit. It returns the counter and the remaining window in ms.
var takeScript = redis.NewScript(`
local current = redis.call("INCRBY", KEYS[1], ARGV[1])
if current == tonumber(ARGV[1]) then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// RedisStore shares limits between instances using a fixed window of
// Config.Window() per key. Bursts at window edges can reach twice the
// capacity, which is acceptable for login throttling.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a store whose keys are prefixed with prefix.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "ratelimit:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (rs *RedisStore) Take(ctx context.Context, key string, n int, cfg Config) (Result, error) {
	window := cfg.Window()
	values, err := takeScript.Run(ctx, rs.client, []string{rs.prefix + key}, n, window.Milliseconds()).Int64Slice()
	if err != nil {
		return Result{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(values) != 2 {
		return Result{}, ErrStoreUnavailable
	}

	count, ttl := int(values[0]), time.Duration(values[1])*time.Millisecond
	if ttl < 0 {
		ttl = window
	}

	res := Result{
		Limit:     cfg.Capacity,
		Remaining: max(0, cfg.Capacity-count),
		Allowed:   count <= cfg.Capacity,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
	}
	return res, nil
}

func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
