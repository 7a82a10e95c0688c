package client

import "kvcache/ring"

// RoutingTable maps keys to ordered candidate node lists. It is a thin seam
// over ring.Ring so the retry path stays swappable without touching hashing.
type RoutingTable struct {
	ring *ring.Ring[string]
}

// NewRoutingTable creates a routing table with the given virtual node count.
func NewRoutingTable(virtualNodes int) (*RoutingTable, error) {
	r, err := ring.New[string](virtualNodes)
	if err != nil {
		return nil, err
	}
	return &RoutingTable{ring: r}, nil
}

// AddNode registers a node address.
func (rt *RoutingTable) AddNode(node string) { rt.ring.Add(node) }

// AddNodes registers several node addresses.
func (rt *RoutingTable) AddNodes(nodes []string) {
	for _, n := range nodes {
		rt.ring.Add(n)
	}
}

// RemoveNode unregisters a node address.
func (rt *RoutingTable) RemoveNode(node string) { rt.ring.Remove(node) }

// NodesForKey returns up to maxCount distinct candidate nodes for key,
// primary first. The slice is freshly built per call and owned by the
// caller.
func (rt *RoutingTable) NodesForKey(key string, maxCount int) []string {
	return rt.ring.GetN(key, maxCount)
}
