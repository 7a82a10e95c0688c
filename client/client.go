package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"kvcache/internal/singleflight"
)

var (
	// ErrNoNodes means the routing table produced zero candidates for a
	// key. Fatal to the call; it indicates an emptied ring, not a flaky
	// node.
	ErrNoNodes = errors.New("client: no cache nodes available")

	// ErrAllNodesFailed is the generic terminal write error when every
	// candidate was exhausted without a recorded transport error.
	ErrAllNodesFailed = errors.New("client: operation failed on all nodes")

	// ErrEmptyKey rejects operations on the empty key.
	ErrEmptyKey = errors.New("client: empty key")

	errNilTransport = errors.New("client: transport must not be nil")
)

// Transport performs the actual read/write against a single remote node.
// Implementations live outside this package; see httpkv for the HTTP one.
//
// Put reports success with a nil error; any non-nil error is a transport
// failure the orchestrator may retry on another candidate. Get reports a
// present value as (value, true, nil), an authoritative miss as
// ("", false, nil), and a transport failure as a non-nil error.
type Transport interface {
	Put(ctx context.Context, node, key, value string) error
	Get(ctx context.Context, node, key string) (value string, found bool, err error)
	Ping(ctx context.Context, node string) error
}

// Client routes operations to cache nodes via consistent hashing and walks
// the candidate list on transport failures, one node at a time.
//
// Concurrent Put/Get calls from multiple goroutines are safe: the only
// shared mutable state is the routing table's ring, which serializes
// membership changes against lookups internally.
type Client struct {
	rt         *RoutingTable
	tr         Transport
	maxRetries int
	timeout    time.Duration
	metrics    Metrics
	coalesce   bool
	sf         singleflight.Group[string, string]
}

const (
	defaultMaxRetries     = 3
	defaultVirtualNodes   = 128
	defaultAttemptTimeout = 2 * time.Second
)

// New builds a client for the given node addresses. The node list must be
// non-empty and transport non-nil; defaults are 3 retries, 128 virtual
// nodes per node, and a 2s per-attempt timeout.
func New(nodes []string, transport Transport, opts ...Option) (*Client, error) {
	if len(nodes) == 0 {
		return nil, errors.New("client: at least one node is required")
	}
	if transport == nil {
		return nil, errNilTransport
	}

	cfg := config{
		maxRetries:   defaultMaxRetries,
		virtualNodes: defaultVirtualNodes,
		timeout:      defaultAttemptTimeout,
		metrics:      NoopMetrics{},
	}
	for _, o := range opts {
		o(&cfg)
	}

	rt, err := NewRoutingTable(cfg.virtualNodes)
	if err != nil {
		return nil, err
	}
	rt.AddNodes(nodes)

	return &Client{
		rt:         rt,
		tr:         transport,
		maxRetries: cfg.maxRetries,
		timeout:    cfg.timeout,
		metrics:    cfg.metrics,
		coalesce:   cfg.coalesce,
	}, nil
}

// AddNode adds a node to the routing table. Keys adjacent to its ring
// positions start routing to it immediately.
func (c *Client) AddNode(node string) { c.rt.AddNode(node) }

// RemoveNode drops a node from the routing table.
func (c *Client) RemoveNode(node string) { c.rt.RemoveNode(node) }

// Put stores key→value on the first reachable candidate node. A transport
// failure advances to the next candidate; the first success terminates the
// walk. When every candidate fails, the last transport error is returned.
//
// Caveat: a write that lands on a fallback candidate lives off the key's
// canonically hashed node, and a later Get will stop at the canonical
// node's authoritative miss before reaching it. The client does not repair
// this; the key is effectively unreadable until the primary takes a new
// write.
func (c *Client) Put(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	candidates := c.rt.NodesForKey(key, c.maxRetries)
	if len(candidates) == 0 {
		return ErrNoNodes
	}

	var lastErr error
	for _, node := range candidates {
		err := c.attemptPut(ctx, node, key, value)
		if err == nil {
			c.metrics.Attempt(OpPut, true)
			return nil
		}
		c.metrics.Attempt(OpPut, false)
		lastErr = err
	}

	c.metrics.Exhausted(OpPut)
	if lastErr != nil {
		return fmt.Errorf("put %q: %w", key, lastErr)
	}
	return ErrAllNodesFailed
}

// Get fetches the value for key. A found value returns immediately; an
// authoritative not-found from a candidate is final (exactly one node owns
// a key, so the owner's miss is the answer) and further candidates are not
// consulted. A transport failure advances to the next candidate.
//
// When every candidate fails at the transport level the result is
// (_, false, nil): true absence and total unreachability are deliberately
// conflated. Use Ping or client metrics to tell the cases apart.
func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	if !c.coalesce {
		return c.get(ctx, key)
	}
	return c.sf.Do(ctx, key, func() (string, bool, error) {
		return c.get(ctx, key)
	})
}

func (c *Client) get(ctx context.Context, key string) (string, bool, error) {
	candidates := c.rt.NodesForKey(key, c.maxRetries)
	if len(candidates) == 0 {
		return "", false, ErrNoNodes
	}

	for _, node := range candidates {
		v, found, err := c.attemptGet(ctx, node, key)
		if err != nil {
			c.metrics.Attempt(OpGet, false)
			continue
		}
		c.metrics.Attempt(OpGet, true)
		if found {
			return v, true, nil
		}
		// Authoritative miss from the responding candidate.
		return "", false, nil
	}

	c.metrics.Exhausted(OpGet)
	return "", false, nil
}

// Ping probes a node's health endpoint. Informational only: the retry path
// never consults health state.
func (c *Client) Ping(ctx context.Context, node string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.tr.Ping(ctx, node)
}

func (c *Client) attemptPut(ctx context.Context, node, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.tr.Put(ctx, node, key, value)
}

func (c *Client) attemptGet(ctx context.Context, node, key string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.tr.Get(ctx, node, key)
}
