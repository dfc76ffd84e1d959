package graph

import (
	"cmp"
	"fmt"
	"iter"
	"slices"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
)

// DynamicGraph is a weighted graph whose nodes are kept in a slice sorted by
// index. Lookups are binary searches; inserts shift the tail of the slice.
type DynamicGraph[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]] struct {
	nodes []Node[T, W, S]
}

// NewDynamicGraph returns an empty graph with room for capacity nodes.
func NewDynamicGraph[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]](capacity int) *DynamicGraph[T, W, S] {
	return &DynamicGraph[T, W, S]{nodes: make([]Node[T, W, S], 0, capacity)}
}

// Position returns where index sits in the sorted node slice.
func (g *DynamicGraph[T, W, S]) Position(index uint64) (int, bool) {
	return slices.BinarySearchFunc(g.nodes, index, func(n Node[T, W, S], target uint64) int {
		return cmp.Compare(n.Value.Index(), target)
	})
}

// Add inserts value with optional initial edges at its sorted position.
func (g *DynamicGraph[T, W, S]) Add(value T, neighbours ...bounded.Entry[uint64, W]) error {
	index := value.Index()
	pos, found := g.Position(index)
	if found {
		return fmt.Errorf("%w: %d", core.ErrDuplicateIndex, index)
	}
	node := NewNode[T, W, S](value)
	for _, nb := range neighbours {
		node.TryAddNeighbour(nb.Key, nb.Weight)
	}
	g.nodes = slices.Insert(g.nodes, pos, node)
	return nil
}

// AddNeighbour adds an edge from -> to.
func (g *DynamicGraph[T, W, S]) AddNeighbour(from, to uint64, weight W) bool {
	pos, found := g.Position(from)
	if !found {
		return false
	}
	return g.nodes[pos].TryAddNeighbour(to, weight)
}

// Find returns the value stored under index.
func (g *DynamicGraph[T, W, S]) Find(index uint64) (T, error) {
	pos, found := g.Position(index)
	if !found {
		var zero T
		return zero, fmt.Errorf("%w: %d", core.ErrNotFound, index)
	}
	return g.nodes[pos].Value, nil
}

// Node returns the node stored under index. The pointer is invalidated by
// the next Add.
func (g *DynamicGraph[T, W, S]) Node(index uint64) (*Node[T, W, S], bool) {
	pos, found := g.Position(index)
	if !found {
		return nil, false
	}
	return &g.nodes[pos], true
}

// At returns the node at a sorted position.
func (g *DynamicGraph[T, W, S]) At(position int) *Node[T, W, S] { return &g.nodes[position] }

// GetNeighbours returns the neighbour indices of index.
func (g *DynamicGraph[T, W, S]) GetNeighbours(index uint64) []uint64 {
	pos, found := g.Position(index)
	if !found {
		return nil
	}
	return g.nodes[pos].NeighbourIndices()
}

// Contains reports whether index is stored.
func (g *DynamicGraph[T, W, S]) Contains(index uint64) bool {
	_, found := g.Position(index)
	return found
}

// Size returns the number of nodes.
func (g *DynamicGraph[T, W, S]) Size() int { return len(g.nodes) }

// Nodes iterates over the nodes in index order.
func (g *DynamicGraph[T, W, S]) Nodes() iter.Seq[*Node[T, W, S]] {
	return func(yield func(*Node[T, W, S]) bool) {
		for i := range g.nodes {
			if !yield(&g.nodes[i]) {
				return
			}
		}
	}
}

var _ Store[core.Item, float64] = (*DynamicGraph[core.Item, float64, bounded.Cap4[uint64, float64]])(nil)
