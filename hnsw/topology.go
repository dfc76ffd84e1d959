package hnsw

import (
	"fmt"
	"math"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/graph"
	"github.com/patrikhermansson/hnav/unweighted"
)

// Topology returns the adjacency of layer as a directed unweighted graph.
// Node values are the external indices in ascending order; edge endpoints are
// positions into that order.
func (ix *Index[T, W, L0, LN, EF]) Topology(layer int) (*unweighted.Graph[uint64], error) {
	switch {
	case layer < 0 || layer >= ix.maxLayers:
		return nil, fmt.Errorf("%w: layer %d outside [0, %d)", core.ErrInvalidConfig, layer, ix.maxLayers)
	case layer == 0:
		return topology(ix.base)
	default:
		return topology(ix.upper[layer-1])
	}
}

func topology[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]](
	g *graph.DynamicGraph[T, W, S],
) (*unweighted.Graph[uint64], error) {
	if uint64(g.Size()) > math.MaxUint32 {
		return nil, fmt.Errorf("%w: %d nodes do not fit 32-bit positions", core.ErrInvalidConfig, g.Size())
	}
	out := unweighted.New[uint64](true)
	for n := range g.Nodes() {
		out.AddNode(n.Index())
	}
	var from uint32
	for n := range g.Nodes() {
		for _, nb := range n.NeighbourIndices() {
			if to, ok := g.Position(nb); ok {
				out.AddEdge(from, uint32(to))
			}
		}
		from++
	}
	return out, nil
}
