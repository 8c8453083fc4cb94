// Package ratelimiter throttles requests per key with a token bucket.
//
// A Limiter pairs a Config (bucket capacity plus refill rate) with a Store.
// MemoryStore keeps one golang.org/x/time/rate limiter per key and suits a
// single instance; RedisStore approximates the bucket with a fixed window
// shared by every instance.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.New(store, ratelimiter.Config{
//	    Capacity:       10,
//	    RefillRate:     1,
//	    RefillInterval: 6 * time.Second,
//	})
//	r.With(ratelimiter.Middleware(limiter, ratelimiter.ByClientIP)).Post("/login", h)
package ratelimiter
