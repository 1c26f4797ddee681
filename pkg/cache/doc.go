// Package cache provides a generic, thread-safe LRU cache whose entries expire
// after a fixed time-to-live.
//
// It backs short-lived memoization of billing catalog lookups: prices and
// products change rarely, and a bounded, expiring cache keeps repeated quota
// checks from turning into repeated API calls.
//
// # Usage
//
//	c := cache.NewExpiring[string, *billing.Price](256, 5*time.Minute)
//	c.Put("price_123", price)
//	if p, ok := c.Get("price_123"); ok {
//		// fresh hit
//	}
//	c.Remove("price_123") // invalidate on a catalog webhook
//
// An entry is evicted either when it is the least recently used one and the
// cache is full, or lazily on the first Get after its deadline.
package cache
