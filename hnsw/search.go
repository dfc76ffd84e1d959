package hnsw

import (
	"fmt"
	"iter"
	"time"

	"github.com/bits-and-blooms/bitset"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/graph"
	"github.com/patrikhermansson/hnav/metrics"
)

// KnnSearch returns the nodes closest to query, at most len(R) of them,
// ordered by ascending weight. It descends the upper layers one node at a
// time and runs the wide search on layer 0. calc must resolve query.Index()
// as well as every indexed node.
func KnnSearch[R bounded.Storage[uint64, W], T core.NodeValue, W core.Weight, L0, LN, EF bounded.Storage[uint64, W]](
	ix *Index[T, W, L0, LN, EF],
	query T,
	calc core.WeightCalculator[W],
) (bounded.Array[uint64, W, R], error) {
	if ix.entry == nil {
		return bounded.Array[uint64, W, R]{}, core.ErrEmptyIndex
	}
	defer ix.metrics.SearchDone(time.Now())
	calc = metrics.CountDistances(ix.metrics, calc)

	q := query.Index()
	ep := ix.descend(q, ix.entry.value.Index(), ix.entry.layer, 0, calc)
	return graph.ProbabilisticSearch[R, EF, W](q, ep, calc, ix.base.GetNeighbours), nil
}

// Search returns up to k neighbours of query, closest first. The search width
// is the candidate capacity EF, so k above it yields at most EF results.
func (ix *Index[T, W, L0, LN, EF]) Search(query T, k int, calc core.WeightCalculator[W]) ([]core.Neighbor[W], error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", core.ErrInvalidConfig, k)
	}
	found, err := KnnSearch[EF](ix, query, calc)
	if err != nil {
		return nil, err
	}
	out := make([]core.Neighbor[W], 0, min(k, found.Size()))
	for idx, w := range found.All() {
		if len(out) == k {
			break
		}
		out = append(out, core.Neighbor[W]{Index: idx, Weight: w})
	}
	return out, nil
}

// BreadthFirstSearch walks layer 0 from start ignoring weights. start is
// yielded first and every reachable node exactly once. Unknown start indices
// yield nothing. The index must not be modified while iterating.
func (ix *Index[T, W, L0, LN, EF]) BreadthFirstSearch(start uint64) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		pos, ok := ix.base.Position(start)
		if !ok {
			return
		}
		visited := bitset.New(uint(ix.base.Size()))
		visited.Set(uint(pos))

		queue := []uint64{start}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			if !yield(current) {
				return
			}
			for _, n := range ix.base.GetNeighbours(current) {
				p, ok := ix.base.Position(n)
				if !ok || visited.Test(uint(p)) {
					continue
				}
				visited.Set(uint(p))
				queue = append(queue, n)
			}
		}
	}
}
