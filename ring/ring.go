package ring

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ErrInvalidVirtualNodes is returned by New when virtualNodes is not positive.
var ErrInvalidVirtualNodes = errors.New("ring: virtual nodes must be > 0")

// Ring implements consistent hashing with virtual nodes, generic over the
// node identifier type. Node identifiers must have a stable, deterministic
// string form: it is the hash input for every position the node owns.
//
// Concurrency: Add and Remove are serialized against all other access;
// lookups may run concurrently with each other.
type Ring[T comparable] struct {
	mu        sync.RWMutex
	vnodes    int
	stringify func(T) string
	positions []position[T] // sorted by hash
	members   map[T]struct{}
}

// position is a single virtual node on the ring.
type position[T comparable] struct {
	hash  uint64
	owner T
}

// New creates a ring placing virtualNodes positions per physical node.
// Returns ErrInvalidVirtualNodes when virtualNodes <= 0.
func New[T comparable](virtualNodes int, opts ...Option[T]) (*Ring[T], error) {
	if virtualNodes <= 0 {
		return nil, ErrInvalidVirtualNodes
	}
	r := &Ring[T]{
		vnodes:    virtualNodes,
		stringify: func(n T) string { return fmt.Sprint(n) },
		members:   make(map[T]struct{}),
	}
	for _, o := range opts {
		o(r)
	}
	return r, nil
}

// Option configures a Ring at construction time.
type Option[T comparable] func(*Ring[T])

// WithStringer overrides how node identifiers are rendered for hashing.
// The default is fmt.Sprint. The rendering must be stable: Remove recomputes
// the same strings to find the positions Add created.
func WithStringer[T comparable](fn func(T) string) Option[T] {
	return func(r *Ring[T]) { r.stringify = fn }
}

// Add places the node on the ring. Re-adding a present node is a no-op.
// A position hash colliding with an existing one silently replaces the
// prior owner at that position; the hash space makes this negligible.
func (r *Ring[T]) Add(node T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[node]; ok {
		return
	}
	r.members[node] = struct{}{}

	base := r.stringify(node)
	for i := 0; i < r.vnodes; i++ {
		h := Sum(base + "#" + strconv.Itoa(i))
		idx := r.search(h)
		if idx < len(r.positions) && r.positions[idx].hash == h {
			r.positions[idx].owner = node
			continue
		}
		r.positions = append(r.positions, position[T]{})
		copy(r.positions[idx+1:], r.positions[idx:])
		r.positions[idx] = position[T]{hash: h, owner: node}
	}
}

// Remove takes the node off the ring by recomputing the exact position
// hashes Add derived and deleting them. Removing an absent node is a no-op.
func (r *Ring[T]) Remove(node T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[node]; !ok {
		return
	}
	delete(r.members, node)

	base := r.stringify(node)
	for i := 0; i < r.vnodes; i++ {
		h := Sum(base + "#" + strconv.Itoa(i))
		idx := r.search(h)
		if idx < len(r.positions) && r.positions[idx].hash == h {
			r.positions = append(r.positions[:idx], r.positions[idx+1:]...)
		}
	}
}

// Get returns the node owning the key: the position with the smallest hash
// >= the key's hash, wrapping around past the largest position.
// The second result is false when the ring is empty.
func (r *Ring[T]) Get(key string) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.positions) == 0 {
		var zero T
		return zero, false
	}
	idx := r.search(Sum(key))
	if idx == len(r.positions) {
		idx = 0
	}
	return r.positions[idx].owner, true
}

// GetN returns up to count distinct nodes in clockwise order starting at
// the key's position. The first element always equals Get(key). The ring
// is scanned at most once (including wraparound), so the result length is
// min(count, number of physical nodes).
func (r *Ring[T]) GetN(key string, count int) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.positions) == 0 || count <= 0 {
		return nil
	}
	idx := r.search(Sum(key))
	if idx == len(r.positions) {
		idx = 0
	}

	seen := make(map[T]struct{}, count)
	result := make([]T, 0, count)
	for i := 0; i < len(r.positions) && len(result) < count; i++ {
		owner := r.positions[(idx+i)%len(r.positions)].owner
		if _, ok := seen[owner]; ok {
			continue
		}
		seen[owner] = struct{}{}
		result = append(result, owner)
	}
	return result
}

// Nodes returns the physical nodes currently on the ring, in no
// particular order.
func (r *Ring[T]) Nodes() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	nodes := make([]T, 0, len(r.members))
	for n := range r.members {
		nodes = append(nodes, n)
	}
	return nodes
}

// Len returns the number of physical nodes on the ring.
func (r *Ring[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// search returns the index of the first position with hash >= h,
// or len(positions) when no such position exists. Callers hold r.mu.
func (r *Ring[T]) search(h uint64) int {
	return sort.Search(len(r.positions), func(i int) bool {
		return r.positions[i].hash >= h
	})
}

// Sum maps an arbitrary string to a non-negative 63-bit ring coordinate.
// One fixed algorithm (xxhash64 with the sign bit masked off) on every
// platform: ring layout never varies across environments.
func Sum(s string) uint64 {
	return xxhash.Sum64String(s) & math.MaxInt64
}
