// Package redis connects to Redis with go-redis and exposes a readiness probe.
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil { ... }
//	defer client.Close()
//
// The client backs the distributed rate limiter used by the HTTP module.
package redis
