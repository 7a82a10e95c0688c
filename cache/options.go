package cache

// options holds optional cache configuration collected by New.
type options[K comparable, V any] struct {
	onEvict  func(k K, v V)
	evictBuf int
	evictCh  chan Eviction[K, V]
	metrics  Metrics
}

// Option configures a Cache at construction time.
type Option[K comparable, V any] func(*options[K, V])

// WithOnEvict installs a callback invoked for every capacity eviction,
// after the entry has been unlinked from the map and the recency list.
//
// The callback runs synchronously while the cache lock is held: it sees
// evictions in exact order, but a slow callback stalls the cache and a
// reentrant call deadlocks. Use WithEvictionBuffer when the observer must
// not run under the lock.
func WithOnEvict[K comparable, V any](fn func(k K, v V)) Option[K, V] {
	return func(o *options[K, V]) { o.onEvict = fn }
}

// WithEvictionBuffer enables the Evictions channel with the given buffer
// size. Delivery is decoupled from the cache lock via a non-blocking send:
// when the consumer falls behind and the buffer fills, notifications are
// dropped. Suitable for observability, not for bookkeeping that must see
// every eviction (use WithOnEvict for that).
func WithEvictionBuffer[K comparable, V any](n int) Option[K, V] {
	return func(o *options[K, V]) {
		if n > 0 {
			o.evictBuf = n
		}
	}
}

// WithMetrics wires a Metrics implementation. Nil is replaced by NoopMetrics.
func WithMetrics[K comparable, V any](m Metrics) Option[K, V] {
	return func(o *options[K, V]) { o.metrics = m }
}
