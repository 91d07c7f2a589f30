// Package ratelimiter implements a token bucket limiter with in-memory and
// pluggable storage, plus HTTP middleware.
//
// The two-factor service does not limit guesses itself; the HTTP API puts a
// bucket per principal in front of the verify endpoints:
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity: 5, RefillRate: 1, RefillInterval: time.Minute,
//	})
//
// Denied calls do not consume tokens, so hammering a locked key does not
// extend the lockout. Use redis.NewRateLimitStore to share buckets between
// instances.
package ratelimiter
