package ratelimiter

import (
	"math"
	"net"
	"net/http"
	"strconv"
)

// KeyFunc extracts the limiter key from a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// RemoteIP keys requests by the client address without its port.
func RemoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

type middlewareOptions struct {
	onDenied http.HandlerFunc
	onError  func(w http.ResponseWriter, r *http.Request, err error)
}

type MiddlewareOption func(*middlewareOptions)

// WithDeniedHandler replaces the default plain-text 429 response.
func WithDeniedHandler(h http.HandlerFunc) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.onDenied = h
	}
}

// WithErrorHandler replaces the default 503 response on store failure.
func WithErrorHandler(h func(w http.ResponseWriter, r *http.Request, err error)) MiddlewareOption {
	return func(o *middlewareOptions) {
		o.onError = h
	}
}

func Middleware(limiter Limiter, keyFunc KeyFunc, opts ...MiddlewareOption) func(http.Handler) http.Handler {
	o := &middlewareOptions{
		onDenied: func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		},
		onError: func(w http.ResponseWriter, _ *http.Request, _ error) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		},
	}
	for _, opt := range opts {
		opt(o)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := keyFunc(r)
			if key == "" {
				next.ServeHTTP(w, r)
				return
			}

			result, err := limiter.Allow(r.Context(), key)
			if err != nil {
				o.onError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

			if !result.Allowed() {
				secs := int(math.Ceil(result.RetryAfter().Seconds()))
				h.Set("Retry-After", strconv.Itoa(max(secs, 1)))
				o.onDenied(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
