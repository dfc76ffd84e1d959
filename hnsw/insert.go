package hnsw

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/graph"
	"github.com/patrikhermansson/hnav/metrics"
)

// Add inserts values in order. calc must resolve the index of every value
// being inserted and of every node already in the index.
//
// Each value is checked before any layer changes, so a failing value leaves
// the index as it was after the previous one.
func (ix *Index[T, W, L0, LN, EF]) Add(values []T, calc core.WeightCalculator[W]) error {
	calc = metrics.CountDistances(ix.metrics, calc)
	for _, v := range values {
		if err := ix.add(v, calc); err != nil {
			return err
		}
	}
	return nil
}

func (ix *Index[T, W, L0, LN, EF]) add(value T, calc core.WeightCalculator[W]) error {
	index := value.Index()
	if ix.base.Contains(index) {
		return fmt.Errorf("%w: %d", core.ErrDuplicateIndex, index)
	}
	level, err := ix.GetRandomLevel()
	if err != nil {
		return fmt.Errorf("inserting %d: %w", index, err)
	}
	log.Debug().Msgf("Inserting node %d at level %d", index, level)

	if ix.entry == nil {
		for l := level; l >= 0; l-- {
			if err := ix.insertIsolated(l, value); err != nil {
				return err
			}
		}
		ix.entry = &entryPoint[T]{value: value, layer: level}
		ix.inserted(level)
		return nil
	}

	entryLevel := ix.entry.layer
	ep := ix.descend(index, ix.entry.value.Index(), entryLevel, level, calc)

	from := min(level, entryLevel)
	for l := level; l > from; l-- {
		if err := ix.insertIsolated(l, value); err != nil {
			return err
		}
	}
	for l := from; l >= 0; l-- {
		if l == 0 {
			ep, err = connect[T, W, L0, EF](ix.base, value, ep, calc)
		} else {
			ep, err = connect[T, W, LN, EF](ix.upper[l-1], value, ep, calc)
		}
		if err != nil {
			return err
		}
	}

	if level > entryLevel {
		log.Debug().Msgf("Entry point moves from %d (level %d) to %d (level %d)",
			ix.entry.value.Index(), entryLevel, index, level)
		ix.entry = &entryPoint[T]{value: value, layer: level}
	}
	ix.inserted(level)
	return nil
}

func (ix *Index[T, W, L0, LN, EF]) insertIsolated(layer int, value T) error {
	if layer == 0 {
		return ix.base.Add(value)
	}
	return ix.upper[layer-1].Add(value)
}

func (ix *Index[T, W, L0, LN, EF]) inserted(level int) {
	if ix.metrics == nil {
		return
	}
	ix.metrics.NodeInserted()
	for l := 0; l <= level; l++ {
		ix.metrics.SetLayerSize(l, ix.LayerSize(l))
	}
}

// descend walks from entry at layer from down to layer to+1 keeping only the
// single closest node per layer, and returns the node reached.
func (ix *Index[T, W, L0, LN, EF]) descend(query, entry uint64, from, to int, calc core.WeightCalculator[W]) uint64 {
	for l := from; l > to; l-- {
		closest := graph.ProbabilisticSearch[bounded.Cap1[uint64, W], bounded.Cap1[uint64, W], W](
			query, entry, calc, ix.neighbours(l))
		entry = closest.MinValue()
	}
	return entry
}

// connect searches layer for the neighbours of value starting at entry, links
// them both ways and inserts value. It returns the closest node found, which
// seeds the search on the layer below.
func connect[T core.NodeValue, W core.Weight, S, EF bounded.Storage[uint64, W]](
	layer *graph.DynamicGraph[T, W, S],
	value T,
	entry uint64,
	calc core.WeightCalculator[W],
) (uint64, error) {
	index := value.Index()
	found := graph.ProbabilisticSearch[S, EF, W](index, entry, calc, layer.GetNeighbours)
	for n := range found.All() {
		layer.AddNeighbour(n, index, calc.GetWeight(n, index))
	}
	if err := layer.Add(value, found.Entries()...); err != nil {
		return entry, err
	}
	return found.MinValue(), nil
}
