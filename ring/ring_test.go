package ring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRing_InvalidVirtualNodes(t *testing.T) {
	t.Parallel()

	for _, vnodes := range []int{0, -1} {
		_, err := New[string](vnodes)
		assert.ErrorIs(t, err, ErrInvalidVirtualNodes, "vnodes=%d", vnodes)
	}
}

func TestRing_Empty(t *testing.T) {
	t.Parallel()

	r, err := New[string](128)
	require.NoError(t, err)

	_, ok := r.Get("key")
	assert.False(t, ok)
	assert.Empty(t, r.GetN("key", 3))
	assert.Zero(t, r.Len())
}

func TestRing_CountNotPositive(t *testing.T) {
	t.Parallel()

	r, err := New[string](64)
	require.NoError(t, err)
	r.Add("a")

	assert.Empty(t, r.GetN("key", 0))
	assert.Empty(t, r.GetN("key", -1))
}

func TestRing_Determinism(t *testing.T) {
	t.Parallel()

	build := func() *Ring[string] {
		r, err := New[string](64)
		require.NoError(t, err)
		for _, n := range []string{"node1", "node2", "node3"} {
			r.Add(n)
		}
		return r
	}
	r1, r2 := build(), build()

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%d", i)
		n1, ok1 := r1.Get(key)
		n2, ok2 := r2.Get(key)
		require.True(t, ok1)
		require.True(t, ok2)
		assert.Equal(t, n1, n2, "key %s", key)
	}
}

// Adding a node and removing it again restores the pre-add owner for
// every key.
func TestRing_AddRemoveRoundTrip(t *testing.T) {
	t.Parallel()

	r, err := New[string](64)
	require.NoError(t, err)
	for _, n := range []string{"a", "b", "c"} {
		r.Add(n)
	}

	keys := make([]string, 500)
	before := make(map[string]string, len(keys))
	for i := range keys {
		keys[i] = fmt.Sprintf("key-%d", i)
		owner, ok := r.Get(keys[i])
		require.True(t, ok)
		before[keys[i]] = owner
	}

	r.Add("d")
	r.Remove("d")

	for _, key := range keys {
		owner, ok := r.Get(key)
		require.True(t, ok)
		assert.Equal(t, before[key], owner, "key %s moved", key)
	}
	assert.Equal(t, 3, r.Len())
}

// Removing a node only moves the keys it owned; everything else stays put.
func TestRing_RemovalMovesOnlyOwnedKeys(t *testing.T) {
	t.Parallel()

	r, err := New[string](64)
	require.NoError(t, err)
	for _, n := range []string{"a", "b", "c"} {
		r.Add(n)
	}

	before := make(map[string]string)
	for i := 0; i < 500; i++ {
		key := fmt.Sprintf("key-%d", i)
		owner, _ := r.Get(key)
		before[key] = owner
	}

	r.Remove("b")

	for key, prev := range before {
		owner, ok := r.Get(key)
		require.True(t, ok)
		assert.NotEqual(t, "b", owner)
		if prev != "b" {
			assert.Equal(t, prev, owner, "key %s not owned by b moved", key)
		}
	}
}

func TestRing_CandidateOrdering(t *testing.T) {
	t.Parallel()

	r, err := New[string](64)
	require.NoError(t, err)
	nodes := []string{"a", "b", "c", "d"}
	for _, n := range nodes {
		r.Add(n)
	}

	for i := 0; i < 200; i++ {
		key := fmt.Sprintf("key-%d", i)
		owner, ok := r.Get(key)
		require.True(t, ok)

		for _, count := range []int{1, 2, 4, 10} {
			got := r.GetN(key, count)

			// First candidate is always the owner.
			require.NotEmpty(t, got)
			assert.Equal(t, owner, got[0])

			// Length is bounded by count and by distinct node count.
			wantLen := count
			if wantLen > len(nodes) {
				wantLen = len(nodes)
			}
			assert.Len(t, got, wantLen)

			// No duplicates.
			seen := make(map[string]struct{}, len(got))
			for _, n := range got {
				_, dup := seen[n]
				assert.False(t, dup, "duplicate %s for key %s", n, key)
				seen[n] = struct{}{}
			}
		}
	}
}

// Virtual-node smoothing: with 3 nodes at 128 vnodes each, per-node key
// counts over 10k random keys stay within a small bounded factor.
func TestRing_Distribution(t *testing.T) {
	t.Parallel()

	r, err := New[string](128)
	require.NoError(t, err)
	for _, n := range []string{"node1", "node2", "node3"} {
		r.Add(n)
	}

	counts := make(map[string]int)
	const numKeys = 10_000
	for i := 0; i < numKeys; i++ {
		owner, ok := r.Get(fmt.Sprintf("key-%d", i))
		require.True(t, ok)
		counts[owner]++
	}

	require.Len(t, counts, 3, "every node must own some keys")
	minCount, maxCount := numKeys, 0
	for _, c := range counts {
		if c < minCount {
			minCount = c
		}
		if c > maxCount {
			maxCount = c
		}
	}
	ratio := float64(maxCount) / float64(minCount)
	assert.Less(t, ratio, 1.5, "distribution too skewed: %v", counts)
}

func TestRing_IdempotentAdd(t *testing.T) {
	t.Parallel()

	r, err := New[string](32)
	require.NoError(t, err)
	r.Add("a")
	r.Add("a")

	assert.Equal(t, 1, r.Len())
	assert.Equal(t, []string{"a"}, r.Nodes())
}

type endpoint struct {
	host string
	port int
}

func TestRing_CustomStringer(t *testing.T) {
	t.Parallel()

	r, err := New[endpoint](32, WithStringer[endpoint](func(e endpoint) string {
		return fmt.Sprintf("%s:%d", e.host, e.port)
	}))
	require.NoError(t, err)

	e1 := endpoint{host: "10.0.0.1", port: 8081}
	e2 := endpoint{host: "10.0.0.2", port: 8082}
	r.Add(e1)
	r.Add(e2)

	owner, ok := r.Get("some-key")
	require.True(t, ok)
	assert.Contains(t, []endpoint{e1, e2}, owner)

	r.Remove(owner)
	next, ok := r.Get("some-key")
	require.True(t, ok)
	assert.NotEqual(t, owner, next)
}
