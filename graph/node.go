package graph

import (
	"iter"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
)

// Node is one value plus its bounded list of weighted neighbours. The
// neighbour list lives inline in the node; its capacity is fixed by S.
type Node[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]] struct {
	Value      T
	Neighbours bounded.Array[uint64, W, S]
}

// NewNode returns a node holding value with no neighbours.
func NewNode[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]](value T) Node[T, W, S] {
	return Node[T, W, S]{Value: value}
}

// Index returns the index of the node's value.
func (n *Node[T, W, S]) Index() uint64 { return n.Value.Index() }

// TryAddNeighbour adds an edge to index. Self-loops are refused; otherwise the
// bounded list decides whether the edge is kept.
func (n *Node[T, W, S]) TryAddNeighbour(index uint64, weight W) bool {
	if index == n.Value.Index() {
		return false
	}
	return n.Neighbours.TryAdd(index, weight)
}

// NeighbourCount returns the number of stored edges.
func (n *Node[T, W, S]) NeighbourCount() int { return n.Neighbours.Size() }

// NeighbourIndices returns neighbour indices ordered by ascending weight.
func (n *Node[T, W, S]) NeighbourIndices() []uint64 { return n.Neighbours.Values() }

// NeighbourWeights returns edge weights in ascending order.
func (n *Node[T, W, S]) NeighbourWeights() []W { return n.Neighbours.Weights() }

// MinNeighbourIndex returns the index of the lightest edge.
func (n *Node[T, W, S]) MinNeighbourIndex() uint64 { return n.Neighbours.MinValue() }

// MaxNeighbourIndex returns the index of the heaviest edge.
func (n *Node[T, W, S]) MaxNeighbourIndex() uint64 { return n.Neighbours.MaxValue() }

// WeightedNeighbours iterates over (index, weight) edges by ascending weight.
func (n *Node[T, W, S]) WeightedNeighbours() iter.Seq2[uint64, W] { return n.Neighbours.All() }
