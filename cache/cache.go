package cache

import (
	"errors"
	"sync"

	"kvcache/internal/util"
)

// ErrInvalidCapacity is returned by New when capacity is not positive.
var ErrInvalidCapacity = errors.New("cache: capacity must be > 0")

// Cache is a bounded in-memory key/value store with exact LRU eviction.
// All methods are safe for concurrent use by multiple goroutines.
//
// Storage is a map[K]*entry for lookups plus an intrusive MRU↔LRU doubly
// linked list for recency ordering. Every operation is O(1): one map access
// and a constant number of pointer fixes.
//
// A single mutex guards the map and the list together. Get promotes the
// entry it returns, so reads mutate ordering and take the write lock;
// only Len and Stats use the shared read path.
type Cache[K comparable, V any] struct {
	// ---- guarded by mu ----
	mu       sync.RWMutex
	m        map[K]*entry[K, V]
	head     *entry[K, V] // MRU
	tail     *entry[K, V] // LRU
	capacity int

	opt options[K, V]

	// ---- hot counters (separate cache lines to avoid false sharing) ----
	_      util.CacheLinePad
	hits   util.PaddedAtomicInt64
	misses util.PaddedAtomicInt64
	evicts util.PaddedAtomicUint64
}

// entry is an intrusive doubly linked list element owned by the cache.
type entry[K comparable, V any] struct {
	key K
	val V

	// List links: head is MRU, tail is LRU.
	prev *entry[K, V]
	next *entry[K, V]
}

// Eviction describes an entry removed to satisfy the capacity limit.
type Eviction[K comparable, V any] struct {
	Key   K
	Value V
}

// New constructs a cache holding at most capacity entries.
// Returns ErrInvalidCapacity when capacity <= 0.
func New[K comparable, V any](capacity int, opts ...Option[K, V]) (*Cache[K, V], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	c := &Cache[K, V]{
		m:        make(map[K]*entry[K, V], capacity),
		capacity: capacity,
	}
	for _, o := range opts {
		o(&c.opt)
	}
	if c.opt.metrics == nil {
		c.opt.metrics = NoopMetrics{}
	}
	if c.opt.evictBuf > 0 {
		c.opt.evictCh = make(chan Eviction[K, V], c.opt.evictBuf)
	}
	return c, nil
}

// Put inserts or updates k→v. An existing key is updated in place and
// promoted to MRU; an update never grows the cache. A new key is inserted
// at MRU; if the insert overflows capacity, exactly the current LRU entry
// is evicted before Put returns.
func (c *Cache[K, V]) Put(k K, v V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.m[k]; ok {
		n.val = v
		c.moveToFront(n)
		return
	}

	n := &entry[K, V]{key: k, val: v}
	c.m[k] = n
	c.insertFront(n)

	if len(c.m) > c.capacity {
		c.evictEntry(c.tail)
	}
	c.opt.metrics.Size(len(c.m))
}

// Get returns the value for k and a presence flag.
// A hit promotes the entry to MRU; a miss changes nothing.
func (c *Cache[K, V]) Get(k K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		c.misses.Add(1)
		c.opt.metrics.Miss()
		var zero V
		return zero, false
	}
	c.moveToFront(n)
	c.hits.Add(1)
	c.opt.metrics.Hit()
	return n.val, true
}

// Remove deletes k if present and returns true on success.
// An explicit Remove is not an eviction: no callback or channel delivery.
func (c *Cache[K, V]) Remove(k K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.m[k]
	if !ok {
		return false
	}
	c.unlink(n)
	delete(c.m, k)
	c.opt.metrics.Size(len(c.m))
	return true
}

// Len returns the number of resident entries.
func (c *Cache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

// Cap returns the fixed capacity the cache was constructed with.
func (c *Cache[K, V]) Cap() int { return c.capacity }

// Evictions returns the eviction notification channel, or nil when the
// cache was built without WithEvictionBuffer.
func (c *Cache[K, V]) Evictions() <-chan Eviction[K, V] { return c.opt.evictCh }

// Stats is a point-in-time snapshot of the hit/miss/eviction counters.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
	Len       int
}

// Stats returns current counter values. Counters are updated atomically,
// so the snapshot is cheap but not a consistent cut across all fields.
func (c *Cache[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evicts.Load(),
		Len:       c.Len(),
	}
}

// -------------------- internals (mu held) --------------------

// insertFront inserts n at MRU in O(1).
func (c *Cache[K, V]) insertFront(n *entry[K, V]) {
	n.prev = nil
	n.next = c.head
	if c.head != nil {
		c.head.prev = n
	}
	c.head = n
	if c.tail == nil {
		c.tail = n
	}
}

// moveToFront promotes n to MRU in O(1).
func (c *Cache[K, V]) moveToFront(n *entry[K, V]) {
	if n == c.head {
		return
	}
	c.unlink(n)
	c.insertFront(n)
}

// unlink detaches n from the list in O(1).
func (c *Cache[K, V]) unlink(n *entry[K, V]) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if c.head == n {
		c.head = n.next
	}
	if c.tail == n {
		c.tail = n.prev
	}
	n.prev, n.next = nil, nil
}

// evictEntry removes n from all structures and then notifies observers.
// The OnEvict callback runs under the lock; keep callbacks lightweight and
// never reenter the cache from one.
func (c *Cache[K, V]) evictEntry(n *entry[K, V]) {
	if n == nil {
		return
	}
	c.unlink(n)
	delete(c.m, n.key)
	c.evicts.Add(1)
	c.opt.metrics.Evict()

	if ch := c.opt.evictCh; ch != nil {
		// Non-blocking: a full buffer drops the notification rather than
		// stalling the mutating operation.
		select {
		case ch <- Eviction[K, V]{Key: n.key, Value: n.val}:
		default:
		}
	}
	if cb := c.opt.onEvict; cb != nil {
		cb(n.key, n.val)
	}
}
