// Package vectors stores dense vectors keyed by node index and computes the
// distance between them, which makes a Store usable as the weight calculator
// of a graph index.
package vectors

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/x448/float16"

	"github.com/patrikhermansson/hnav/core"
)

// QueryIndex is the index conventionally given to query vectors, which are
// never stored.
const QueryIndex uint64 = math.MaxUint64

// ErrDimensionMismatch is returned when a vector's length differs from the store's.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Precision selects how a Store keeps vector components in memory.
type Precision int

const (
	// Float32 keeps components as they were given.
	Float32 Precision = iota
	// Float16 halves memory by storing IEEE 754 half-precision components.
	Float16
)

func (p Precision) String() string {
	switch p {
	case Float32:
		return "float32"
	case Float16:
		return "float16"
	default:
		return fmt.Sprintf("Precision(%d)", int(p))
	}
}

// ParsePrecision parses "float32" or "float16".
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float32", "f32":
		return Float32, nil
	case "float16", "f16", "half":
		return Float16, nil
	default:
		return 0, fmt.Errorf("%w: unknown precision %q", core.ErrInvalidConfig, s)
	}
}

// Store holds fixed-dimension vectors. Reads are safe to run concurrently;
// Add must not overlap with anything else.
type Store struct {
	dim       int
	metric    string
	precision Precision
	distance  core.DistanceFunc
	normalize bool

	positions map[uint64]int
	f32       []float32
	f16       []float16.Float16

	scratch sync.Pool
}

// NewStore creates a store for dim-dimensional vectors compared with the named
// metric from core.Distances. Cosine and angular stores normalise on insert.
func NewStore(dim int, metric string, precision Precision) (*Store, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive, got %d", core.ErrInvalidConfig, dim)
	}
	distance, ok := core.Distances[metric]
	if !ok {
		return nil, fmt.Errorf("%w: unknown distance %q", core.ErrInvalidConfig, metric)
	}
	if precision != Float32 && precision != Float16 {
		return nil, fmt.Errorf("%w: %v", core.ErrInvalidConfig, precision)
	}
	log.Info().Msgf("Creating vector store with dimension=%d, distance=%s, precision=%s", dim, metric, precision)
	s := &Store{
		dim:       dim,
		metric:    metric,
		precision: precision,
		distance:  distance,
		normalize: metric == "cosine" || metric == "angular",
		positions: make(map[uint64]int),
	}
	s.scratch.New = func() any {
		buf := make([]float32, dim)
		return &buf
	}
	return s, nil
}

// Dimension returns the vector length.
func (s *Store) Dimension() int { return s.dim }

// Metric returns the distance name.
func (s *Store) Metric() string { return s.metric }

// Precision returns the storage precision.
func (s *Store) Precision() Precision { return s.precision }

// Len returns the number of stored vectors.
func (s *Store) Len() int { return len(s.positions) }

// Contains reports whether index has a vector.
func (s *Store) Contains(index uint64) bool {
	_, ok := s.positions[index]
	return ok
}

// Add stores a copy of vec under index.
func (s *Store) Add(index uint64, vec []float32) error {
	if len(vec) != s.dim {
		return fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), s.dim)
	}
	if _, ok := s.positions[index]; ok {
		return fmt.Errorf("%w: %d", core.ErrDuplicateIndex, index)
	}
	v := s.prepare(vec)

	s.positions[index] = len(s.positions)
	switch s.precision {
	case Float16:
		for _, x := range v {
			s.f16 = append(s.f16, float16.Fromfloat32(x))
		}
	default:
		s.f32 = append(s.f32, v...)
	}
	return nil
}

// prepare copies vec, normalising it when the metric needs unit vectors.
func (s *Store) prepare(vec []float32) []float32 {
	v := make([]float32, len(vec))
	copy(v, vec)
	if s.normalize {
		core.NormalizeVector(v)
	}
	return v
}

// Vector returns a copy of the vector stored under index as float32.
func (s *Store) Vector(index uint64) ([]float32, bool) {
	pos, ok := s.positions[index]
	if !ok {
		return nil, false
	}
	out := make([]float32, s.dim)
	s.decode(pos, out)
	return out, true
}

func (s *Store) decode(pos int, dst []float32) {
	off := pos * s.dim
	if s.precision == Float16 {
		for i, h := range s.f16[off : off+s.dim] {
			dst[i] = h.Float32()
		}
		return
	}
	copy(dst, s.f32[off:off+s.dim])
}

// view returns the vector at index without copying when possible. release
// must be called once the slice is no longer used.
func (s *Store) view(index uint64) (vec []float32, release func()) {
	pos, ok := s.positions[index]
	if !ok {
		panic(fmt.Sprintf("vectors: index %d not in store", index))
	}
	if s.precision == Float32 {
		off := pos * s.dim
		return s.f32[off : off+s.dim], func() {}
	}
	buf := s.scratch.Get().(*[]float32)
	s.decode(pos, *buf)
	return *buf, func() { s.scratch.Put(buf) }
}

// GetWeight returns the distance between the vectors stored under a and b.
// Both must be present.
func (s *Store) GetWeight(a, b uint64) float64 {
	va, ra := s.view(a)
	defer ra()
	vb, rb := s.view(b)
	defer rb()
	return s.distance(va, vb)
}

var _ core.WeightCalculator[float64] = (*Store)(nil)

// WithQuery returns a calculator that resolves index to vec and every other
// index to the store. The store is not modified, so one calculator per query
// lets queries run concurrently.
func (s *Store) WithQuery(index uint64, vec []float32) (core.WeightCalculator[float64], error) {
	if len(vec) != s.dim {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrDimensionMismatch, len(vec), s.dim)
	}
	if s.Contains(index) {
		return nil, fmt.Errorf("%w: query index %d is a stored vector", core.ErrDuplicateIndex, index)
	}
	return &queryCalculator{store: s, index: index, vec: s.prepare(vec)}, nil
}

type queryCalculator struct {
	store *Store
	index uint64
	vec   []float32
}

func (q *queryCalculator) resolve(index uint64) ([]float32, func()) {
	if index == q.index {
		return q.vec, func() {}
	}
	return q.store.view(index)
}

func (q *queryCalculator) GetWeight(a, b uint64) float64 {
	va, ra := q.resolve(a)
	defer ra()
	vb, rb := q.resolve(b)
	defer rb()
	return q.store.distance(va, vb)
}
