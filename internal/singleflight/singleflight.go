// Package singleflight coalesces concurrent lookups for the same key.
package singleflight

import (
	"context"
	"sync"
)

// Group coalesces concurrent lookup calls for the same key K so that the
// supplied fn is executed at most once. Other concurrent callers wait for
// the shared result. Results carry a presence flag alongside the value so
// that "found nothing" and "failed" stay distinct outcomes.
//
// Concurrency notes:
//   - The first caller for a given key becomes the leader and runs fn.
//   - Followers wait on c.done. Publishing (val, found, err) happens-before
//     close(c.done), so reads after <-done observe the final values.
//   - Cancelling ctx in a follower unblocks only that follower; it does
//     NOT cancel the leader's fn. If the underlying work must be
//     cancellable, thread ctx into fn and handle it there.
type Group[K comparable, V any] struct {
	mu sync.Mutex
	m  map[K]*call[V]
}

type call[V any] struct {
	done  chan struct{} // closed when val/found/err are published
	val   V
	found bool
	err   error
}

// Do runs fn once for the given key. Concurrent calls with the same key
// wait for the shared result. If ctx is cancelled in a follower, that
// follower returns ctx.Err() while the leader continues to run fn.
func (g *Group[K, V]) Do(ctx context.Context, key K, fn func() (V, bool, error)) (V, bool, error) {
	// Fast path: an in-flight call exists — wait (respecting ctx).
	g.mu.Lock()
	if g.m == nil {
		g.m = make(map[K]*call[V])
	}
	if c, ok := g.m[key]; ok {
		done := c.done
		g.mu.Unlock()

		select {
		case <-done:
			return c.val, c.found, c.err
		case <-ctx.Done():
			var zero V
			return zero, false, ctx.Err()
		}
	}

	// We are the leader for this key.
	c := &call[V]{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	// Execute fn outside the lock.
	v, found, err := fn()

	// Publish result and wake followers.
	c.val, c.found, c.err = v, found, err
	close(c.done)

	// Remove the in-flight marker.
	g.mu.Lock()
	delete(g.m, key)
	g.mu.Unlock()

	return v, found, err
}
