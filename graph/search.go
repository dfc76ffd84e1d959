package graph

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
)

// ProbabilisticSearch runs a greedy beam search from entryPoint towards query.
// Neighbour lookup is delegated to neighbours so one routine serves any node
// storage. R bounds the result set and C bounds the candidate queue.
//
// Expansion stops once the closest remaining candidate is farther than the
// worst accepted result. The search is heuristic: recall depends on how well
// the graph is connected, not on an exhaustive scan. entryPoint must be known
// to the calculator.
func ProbabilisticSearch[R, C bounded.Storage[uint64, W], W core.Weight](
	query, entryPoint uint64,
	calc core.WeightCalculator[W],
	neighbours func(index uint64) []uint64,
) bounded.Array[uint64, W, R] {
	visited := roaring64.New()
	visited.Add(entryPoint)

	var (
		candidates bounded.Array[uint64, W, C]
		result     bounded.Array[uint64, W, R]
	)
	d := calc.GetWeight(query, entryPoint)
	candidates.TryAdd(entryPoint, d)
	result.TryAdd(entryPoint, d)

	for !candidates.IsEmpty() {
		closest := candidates.At(0)
		candidates.RemoveAt(0)
		if closest.Weight > result.MaxWeight() {
			break
		}

		for _, n := range neighbours(closest.Key) {
			if !visited.CheckedAdd(n) {
				continue
			}
			dn := calc.GetWeight(query, n)
			if dn < result.MaxWeight() {
				candidates.TryAdd(n, dn)
				result.TryAdd(n, dn)
			}
		}
	}
	return result
}

// Search runs ProbabilisticSearch over a Store.
func Search[R, C bounded.Storage[uint64, W], T core.NodeValue, W core.Weight](
	g Store[T, W],
	query T,
	entryPoint uint64,
	calc core.WeightCalculator[W],
) bounded.Array[uint64, W, R] {
	return ProbabilisticSearch[R, C, W](query.Index(), entryPoint, calc, g.GetNeighbours)
}
