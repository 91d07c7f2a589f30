// Package cache provides a generic, thread-safe LRU cache with a fixed
// capacity.
//
// Besides plain Get/Put/Remove it offers Update, an atomic read-modify-write
// used by the in-memory TOTP replay guard to advance a principal's last
// accepted time step without racing concurrent verifications.
//
//	c := cache.NewLRUCache[string, int64](10_000)
//	_, accepted := c.Update("user-1", func(last int64, found bool) (int64, bool) {
//	    if found && counter <= last {
//	        return last, false
//	    }
//	    return counter, true
//	})
package cache
