// Package cache provides a bounded, generic, in-memory key/value store
// with exact least-recently-used eviction.
//
// Design
//
//   - Storage: a map[K]*entry for lookups and an intrusive MRU↔LRU doubly
//     linked list for recency ordering. Put, Get and Remove are O(1): one
//     map access plus a constant amount of pointer fixes.
//
//   - Concurrency: a single mutex guards the map and the list together.
//     Get promotes the returned entry to MRU, so reads are writes with
//     respect to ordering and take the exclusive lock; Len and Stats use
//     the shared read path.
//
//   - Eviction: inserting a new key into a full cache removes exactly the
//     current LRU entry before Put returns. Evictions can be observed two
//     ways: a synchronous OnEvict callback that runs while the lock is
//     held (ordered and lossless, but it stalls the cache and must not
//     reenter it), or a buffered notification channel that decouples the
//     observer from the lock (non-blocking send, drops on overflow).
//
//   - Metrics: an optional Metrics implementation receives Hit/Miss/Evict/
//     Size signals; see metrics/prom for a Prometheus adapter.
//
// Basic usage
//
//	c, err := cache.New[string, string](1024)
//	if err != nil {
//	    // capacity must be > 0
//	}
//	c.Put("a", "1")
//	if v, ok := c.Get("a"); ok {
//	    _ = v
//	}
//
// Observing evictions
//
//	c, _ := cache.New[string, string](1024,
//	    cache.WithEvictionBuffer[string, string](256),
//	)
//	go func() {
//	    for ev := range c.Evictions() {
//	        log.Printf("evicted %s", ev.Key)
//	    }
//	}()
package cache
