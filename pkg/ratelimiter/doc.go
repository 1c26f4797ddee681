// Package ratelimiter implements a token bucket limiter whose state lives in
// Redis, so every replica of the service shares the same budget per key.
//
//	store := ratelimiter.NewRedisStore(client, ratelimiter.WithKeyPrefix("rl:sync:"))
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       5,
//		RefillRate:     1,
//		RefillInterval: 10 * time.Second,
//	})
//
//	r.With(ratelimiter.Middleware(limiter, keyFunc)).Post("/sync", h)
//
// A bucket starts full. Every refill interval adds RefillRate tokens up to
// Capacity. A request that finds fewer tokens than it asks for is denied and
// consumes nothing; the Result then carries a negative Remaining.
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response, plus Retry-After on denial.
package ratelimiter
