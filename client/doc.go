// Package client routes cache operations to the node that owns each key.
//
// A RoutingTable (consistent hash ring over node addresses) turns a key
// into an ordered candidate list; the Client walks that list one node at a
// time through a Transport, retrying transport failures on the next
// candidate. Writes surface the last transport error after exhaustion;
// reads treat a responding node's miss as authoritative and degrade to
// absence when every candidate is unreachable.
package client
