package client

// Op labels the logical operation for metrics.
type Op string

const (
	OpPut Op = "put"
	OpGet Op = "get"
)

// Metrics exposes orchestrator-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
type Metrics interface {
	// Attempt records one node attempt and whether it succeeded at the
	// transport level.
	Attempt(op Op, ok bool)
	// Exhausted records a candidate walk that ran out of nodes.
	Exhausted(op Op)
}

// NoopMetrics is a drop-in Metrics implementation that does nothing.
type NoopMetrics struct{}

func (NoopMetrics) Attempt(Op, bool) {}
func (NoopMetrics) Exhausted(Op)     {}

var _ Metrics = NoopMetrics{}
