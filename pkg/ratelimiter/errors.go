package ratelimiter

import "errors"

var (
	ErrInvalidConfig     = errors.New("invalid rate limiter configuration")
	ErrInvalidTokenCount = errors.New("invalid token count")
	ErrEmptyKey          = errors.New("empty rate limit key")
	ErrStoreUnavailable  = errors.New("rate limit store unavailable")
)
