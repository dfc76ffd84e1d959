// Package graph holds weighted graphs of bounded-degree nodes and the greedy
// beam search that routes through them.
//
// Two storage strategies share the Store contract: Graph indexes nodes in a
// hash map and suits graphs built once up front, DynamicGraph keeps nodes in
// a slice sorted by index and supports binary-search lookup while nodes keep
// arriving. Neither is safe for concurrent mutation.
package graph

import (
	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
)

// Store is node storage with neighbour lookup.
type Store[T core.NodeValue, W core.Weight] interface {
	// Add inserts value with optional initial edges. It returns
	// core.ErrDuplicateIndex if the index is already present.
	Add(value T, neighbours ...bounded.Entry[uint64, W]) error

	// AddNeighbour adds an edge from -> to. It returns false if from is
	// absent or the edge was not kept.
	AddNeighbour(from, to uint64, weight W) bool

	// Find returns the value stored under index, or core.ErrNotFound.
	Find(index uint64) (T, error)

	// GetNeighbours returns the neighbour indices of index by ascending
	// weight, or nil if index is absent.
	GetNeighbours(index uint64) []uint64

	// Contains reports whether index is stored.
	Contains(index uint64) bool

	// Size returns the number of nodes.
	Size() int
}
