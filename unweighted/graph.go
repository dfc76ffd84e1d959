// Package unweighted holds plain directed and undirected graphs over
// fixed-size node values, and their compact binary layout.
//
// The layout is an 8-byte little-endian header of two uint32 offsets (end of
// the node section, end of the edge section) followed by the raw node values
// and then the raw edges as pairs of uint32 node positions. Nothing else is
// stored, so the reader must know the node type and whether the graph is
// directed.
package unweighted

import (
	"cmp"
	"iter"

	"github.com/tidwall/btree"
)

// Edge connects two node positions.
type Edge struct {
	From uint32
	To   uint32
}

func edgeLess(a, b Edge) bool {
	if c := cmp.Compare(a.From, b.From); c != 0 {
		return c < 0
	}
	return a.To < b.To
}

// Graph is an unweighted graph whose nodes are addressed by insertion position.
// Undirected edges are kept in both directions internally and reported once,
// with From <= To.
type Graph[N any] struct {
	Directed bool

	nodes []N
	edges *btree.BTreeG[Edge]
	count int
}

// New returns an empty graph.
func New[N any](directed bool) *Graph[N] {
	return &Graph[N]{Directed: directed, edges: btree.NewBTreeG(edgeLess)}
}

// AddNode appends n and returns its position.
func (g *Graph[N]) AddNode(n N) uint32 {
	g.nodes = append(g.nodes, n)
	return uint32(len(g.nodes) - 1)
}

// AddEdge connects from and to. It returns false when an endpoint is unknown
// or the edge already exists.
func (g *Graph[N]) AddEdge(from, to uint32) bool {
	if int(from) >= len(g.nodes) || int(to) >= len(g.nodes) {
		return false
	}
	if !g.Directed && from > to {
		from, to = to, from
	}
	if _, replaced := g.edges.Set(Edge{From: from, To: to}); replaced {
		return false
	}
	if !g.Directed && from != to {
		g.edges.Set(Edge{From: to, To: from})
	}
	g.count++
	return true
}

// HasEdge reports whether from and to are connected.
func (g *Graph[N]) HasEdge(from, to uint32) bool {
	_, ok := g.edges.Get(Edge{From: from, To: to})
	return ok
}

// Neighbours returns the positions reachable from pos in ascending order.
func (g *Graph[N]) Neighbours(pos uint32) []uint32 {
	var out []uint32
	g.edges.Ascend(Edge{From: pos}, func(e Edge) bool {
		if e.From != pos {
			return false
		}
		out = append(out, e.To)
		return true
	})
	return out
}

// Node returns the value at pos.
func (g *Graph[N]) Node(pos uint32) N { return g.nodes[pos] }

// Nodes returns the node values in position order.
func (g *Graph[N]) Nodes() []N { return g.nodes }

// NodeCount returns the number of nodes.
func (g *Graph[N]) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges, counting undirected edges once.
func (g *Graph[N]) EdgeCount() int { return g.count }

// Edges yields every edge once in ascending (From, To) order.
func (g *Graph[N]) Edges() iter.Seq[Edge] {
	return func(yield func(Edge) bool) {
		g.edges.Scan(func(e Edge) bool {
			if !g.Directed && e.From > e.To {
				return true
			}
			return yield(e)
		})
	}
}
