package client

import "time"

// config collects optional client settings with their defaults applied.
type config struct {
	maxRetries   int
	virtualNodes int
	timeout      time.Duration
	metrics      Metrics
	coalesce     bool
}

// Option configures a Client at construction time.
type Option func(*config)

// WithMaxRetries bounds how many candidate nodes an operation may try.
// Values below 1 are clamped to 1.
func WithMaxRetries(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.maxRetries = n
	}
}

// WithVirtualNodes sets the ring positions per node (default 128).
func WithVirtualNodes(n int) Option {
	return func(c *config) { c.virtualNodes = n }
}

// WithAttemptTimeout bounds each individual node attempt (default 2s).
// A timed-out attempt counts as a transport failure and the walk advances.
func WithAttemptTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMetrics wires a Metrics implementation. Nil is replaced by NoopMetrics.
func WithMetrics(m Metrics) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithReadCoalescing makes concurrent Get calls for the same key share one
// candidate walk instead of each hitting the network.
func WithReadCoalescing() Option {
	return func(c *config) { c.coalesce = true }
}
