package graph

import (
	"fmt"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
)

// Graph is a hash-indexed weighted graph. It suits graphs built once and then
// searched with Search; use DynamicGraph when nodes keep arriving or callers
// need ordered positions, as the hnsw layers do.
type Graph[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]] struct {
	nodes map[uint64]*Node[T, W, S]
}

// NewGraph returns an empty graph sized for about capacity nodes.
func NewGraph[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]](capacity int) *Graph[T, W, S] {
	return &Graph[T, W, S]{nodes: make(map[uint64]*Node[T, W, S], capacity)}
}

// Add inserts value with optional initial edges.
func (g *Graph[T, W, S]) Add(value T, neighbours ...bounded.Entry[uint64, W]) error {
	index := value.Index()
	if _, exists := g.nodes[index]; exists {
		return fmt.Errorf("%w: %d", core.ErrDuplicateIndex, index)
	}
	node := NewNode[T, W, S](value)
	for _, nb := range neighbours {
		node.TryAddNeighbour(nb.Key, nb.Weight)
	}
	g.nodes[index] = &node
	return nil
}

// AddNeighbour adds an edge from -> to.
func (g *Graph[T, W, S]) AddNeighbour(from, to uint64, weight W) bool {
	node, ok := g.nodes[from]
	if !ok {
		return false
	}
	return node.TryAddNeighbour(to, weight)
}

// Find returns the value stored under index.
func (g *Graph[T, W, S]) Find(index uint64) (T, error) {
	node, ok := g.nodes[index]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %d", core.ErrNotFound, index)
	}
	return node.Value, nil
}

// Node returns the node stored under index.
func (g *Graph[T, W, S]) Node(index uint64) (*Node[T, W, S], bool) {
	node, ok := g.nodes[index]
	return node, ok
}

// GetNeighbours returns the neighbour indices of index.
func (g *Graph[T, W, S]) GetNeighbours(index uint64) []uint64 {
	node, ok := g.nodes[index]
	if !ok {
		return nil
	}
	return node.NeighbourIndices()
}

// Contains reports whether index is stored.
func (g *Graph[T, W, S]) Contains(index uint64) bool {
	_, ok := g.nodes[index]
	return ok
}

// Size returns the number of nodes.
func (g *Graph[T, W, S]) Size() int { return len(g.nodes) }

var _ Store[core.Item, float64] = (*Graph[core.Item, float64, bounded.Cap4[uint64, float64]])(nil)
