// Package ring provides a consistent hash ring with virtual nodes for
// stable key-to-node assignment under membership changes.
//
// Each physical node owns a fixed number of positions ("virtual nodes")
// derived from its string form; keys map to the clockwise successor of
// their own hash. Virtual nodes smooth the per-node share of the key
// space, and adding or removing one node only moves the keys adjacent
// to its positions.
package ring
