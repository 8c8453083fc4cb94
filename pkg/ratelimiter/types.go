package ratelimiter

import (
	"context"
	"time"
)

// Config describes a token bucket.
type Config struct {
	Capacity       int           // burst size
	RefillRate     int           // tokens added per RefillInterval
	RefillInterval time.Duration // refill period
}

// Window is the time an empty bucket needs to refill completely.
func (c Config) Window() time.Duration {
	return time.Duration(c.Capacity) * c.RefillInterval / time.Duration(c.RefillRate)
}

// Result is the outcome of a single Take.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration // zero when allowed
}

// Store consumes tokens for a key.
type Store interface {
	Take(ctx context.Context, key string, n int, cfg Config) (Result, error)
	Reset(ctx context.Context, key string) error
}
