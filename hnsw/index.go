package hnsw

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/hnav/bounded"
	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/graph"
	"github.com/patrikhermansson/hnav/metrics"
)

// DefaultMaxLevelAttempts bounds how many samples GetRandomLevel draws before
// giving up.
const DefaultMaxLevelAttempts = 1000

// Default capacities used by NewDefault.
type (
	DefaultBase       = bounded.Cap32[uint64, float64]
	DefaultUpper      = bounded.Cap16[uint64, float64]
	DefaultCandidates = bounded.Cap64[uint64, float64]
)

// entryPoint is the node where descents start, with the highest layer it occupies.
type entryPoint[T core.NodeValue] struct {
	value T
	layer int
}

// Index is a hierarchical navigable small world graph.
//
// Layer 0 holds every node and keeps up to len(L0) neighbours per node; the
// upper layers keep up to len(LN). EF bounds the candidate queue of the layer
// searches run while inserting and querying. The index is append-only and not
// safe for concurrent mutation; concurrent read-only queries are fine once
// all Add calls have returned.
type Index[T core.NodeValue, W core.Weight, L0, LN, EF bounded.Storage[uint64, W]] struct {
	name             string
	maxLayers        int
	maxLevelAttempts int
	base             *graph.DynamicGraph[T, W, L0]
	upper            []*graph.DynamicGraph[T, W, LN] // upper[i] is layer i+1
	entry            *entryPoint[T]
	sampler          core.Sampler[W]
	metrics          *metrics.Collector
}

type options struct {
	name             string
	maxLevelAttempts int
	capacity         int
	metrics          *metrics.Collector
}

// Option configures an Index.
type Option func(*options)

// WithMaxLevelAttempts caps the rejection sampling loop of GetRandomLevel.
// A value <= 0 removes the cap.
func WithMaxLevelAttempts(n int) Option {
	return func(o *options) { o.maxLevelAttempts = n }
}

// WithMetrics reports index activity to c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *options) { o.metrics = c }
}

// WithName labels the index in log output.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithCapacity preallocates layer 0 for n nodes.
func WithCapacity(n int) Option {
	return func(o *options) { o.capacity = n }
}

// New creates an empty index with maxLayers layers drawing node levels from sampler.
func New[T core.NodeValue, W core.Weight, L0, LN, EF bounded.Storage[uint64, W]](
	maxLayers int,
	sampler core.Sampler[W],
	opts ...Option,
) (*Index[T, W, L0, LN, EF], error) {
	if maxLayers < 1 {
		return nil, fmt.Errorf("%w: maxLayers must be at least 1, got %d", core.ErrInvalidConfig, maxLayers)
	}
	if sampler == nil {
		return nil, fmt.Errorf("%w: nil level sampler", core.ErrInvalidConfig)
	}

	o := options{name: "hnsw", maxLevelAttempts: DefaultMaxLevelAttempts}
	for _, opt := range opts {
		opt(&o)
	}
	if o.capacity < 0 {
		o.capacity = 0
	}

	ix := &Index[T, W, L0, LN, EF]{
		name:             o.name,
		maxLayers:        maxLayers,
		maxLevelAttempts: o.maxLevelAttempts,
		base:             graph.NewDynamicGraph[T, W, L0](o.capacity),
		upper:            make([]*graph.DynamicGraph[T, W, LN], maxLayers-1),
		sampler:          sampler,
		metrics:          o.metrics,
	}
	for i := range ix.upper {
		ix.upper[i] = graph.NewDynamicGraph[T, W, LN](0)
	}

	var l0 L0
	var ln LN
	var ef EF
	log.Info().Msgf("Creating new HNSW index %q with maxLayers=%d, base neighbours=%d, upper neighbours=%d, ef=%d",
		o.name, maxLayers, len(l0), len(ln), len(ef))
	return ix, nil
}

// NewDefault creates an index with float64 weights, 32 neighbours on layer 0,
// 16 on upper layers and 64 search candidates.
func NewDefault[T core.NodeValue](
	maxLayers int,
	sampler core.Sampler[float64],
	opts ...Option,
) (*Index[T, float64, DefaultBase, DefaultUpper, DefaultCandidates], error) {
	return New[T, float64, DefaultBase, DefaultUpper, DefaultCandidates](maxLayers, sampler, opts...)
}

// MaxLayers returns the number of layers.
func (ix *Index[T, W, L0, LN, EF]) MaxLayers() int { return ix.maxLayers }

// Len returns the number of inserted nodes.
func (ix *Index[T, W, L0, LN, EF]) Len() int { return ix.base.Size() }

// EntryPoint returns the current entry point and its layer. ok is false
// before the first insertion.
func (ix *Index[T, W, L0, LN, EF]) EntryPoint() (value T, layer int, ok bool) {
	if ix.entry == nil {
		return value, -1, false
	}
	return ix.entry.value, ix.entry.layer, true
}

// LayerSize returns the node count of layer, or 0 when layer is out of range.
func (ix *Index[T, W, L0, LN, EF]) LayerSize(layer int) int {
	switch {
	case layer == 0:
		return ix.base.Size()
	case layer > 0 && layer < ix.maxLayers:
		return ix.upper[layer-1].Size()
	default:
		return 0
	}
}

// Contains reports whether index is present at layer.
func (ix *Index[T, W, L0, LN, EF]) Contains(layer int, index uint64) bool {
	switch {
	case layer == 0:
		return ix.base.Contains(index)
	case layer > 0 && layer < ix.maxLayers:
		return ix.upper[layer-1].Contains(index)
	default:
		return false
	}
}

// Find returns the value stored under index.
func (ix *Index[T, W, L0, LN, EF]) Find(index uint64) (T, error) {
	return ix.base.Find(index)
}

// Neighbours returns the neighbour indices of index at layer, closest first.
func (ix *Index[T, W, L0, LN, EF]) Neighbours(layer int, index uint64) []uint64 {
	if layer < 0 || layer >= ix.maxLayers {
		return nil
	}
	return ix.neighbours(layer)(index)
}

// NeighbourCapacity returns the neighbour capacity of layer.
func (ix *Index[T, W, L0, LN, EF]) NeighbourCapacity(layer int) int {
	if layer == 0 {
		var s L0
		return len(s)
	}
	var s LN
	return len(s)
}

func (ix *Index[T, W, L0, LN, EF]) neighbours(layer int) func(uint64) []uint64 {
	if layer == 0 {
		return ix.base.GetNeighbours
	}
	return ix.upper[layer-1].GetNeighbours
}

// Stats summarises the shape of an index.
type Stats struct {
	Name            string
	MaxLayers       int
	Count           int
	LayerSizes      []int
	Edges           []int
	HasEntryPoint   bool
	EntryPointIndex uint64
	EntryPointLayer int
}

// Stats returns per-layer node and edge counts and the entry point.
func (ix *Index[T, W, L0, LN, EF]) Stats() Stats {
	s := Stats{
		Name:            ix.name,
		MaxLayers:       ix.maxLayers,
		Count:           ix.base.Size(),
		LayerSizes:      make([]int, ix.maxLayers),
		Edges:           make([]int, ix.maxLayers),
		EntryPointLayer: -1,
	}
	s.LayerSizes[0] = ix.base.Size()
	s.Edges[0] = countEdges(ix.base)
	for i, layer := range ix.upper {
		s.LayerSizes[i+1] = layer.Size()
		s.Edges[i+1] = countEdges(layer)
	}
	if ix.entry != nil {
		s.HasEntryPoint = true
		s.EntryPointIndex = ix.entry.value.Index()
		s.EntryPointLayer = ix.entry.layer
	}
	return s
}

func countEdges[T core.NodeValue, W core.Weight, S bounded.Storage[uint64, W]](g *graph.DynamicGraph[T, W, S]) int {
	total := 0
	for n := range g.Nodes() {
		total += n.NeighbourCount()
	}
	return total
}
