package vectors_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/vectors"
)

func TestNewStoreValidates(t *testing.T) {
	_, err := vectors.NewStore(0, "euclidean", vectors.Float32)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = vectors.NewStore(3, "hamming", vectors.Float32)
	assert.ErrorIs(t, err, core.ErrInvalidConfig)

	_, err = vectors.NewStore(3, "euclidean", vectors.Precision(9))
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
}

func TestParsePrecision(t *testing.T) {
	for in, want := range map[string]vectors.Precision{
		"":        vectors.Float32,
		"float32": vectors.Float32,
		"F16":     vectors.Float16,
		" half ":  vectors.Float16,
	} {
		got, err := vectors.ParsePrecision(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := vectors.ParsePrecision("int8")
	assert.ErrorIs(t, err, core.ErrInvalidConfig)
	assert.Equal(t, "float16", vectors.Float16.String())
}

func TestStoreAddAndWeight(t *testing.T) {
	for _, p := range []vectors.Precision{vectors.Float32, vectors.Float16} {
		t.Run(p.String(), func(t *testing.T) {
			s, err := vectors.NewStore(3, "euclidean", p)
			require.NoError(t, err)

			require.NoError(t, s.Add(1, []float32{0, 0, 0}))
			require.NoError(t, s.Add(2, []float32{3, 4, 0}))
			assert.Equal(t, 2, s.Len())

			assert.ErrorIs(t, s.Add(3, []float32{1, 2}), vectors.ErrDimensionMismatch)
			assert.ErrorIs(t, s.Add(1, []float32{1, 1, 1}), core.ErrDuplicateIndex)
			assert.Equal(t, 2, s.Len())

			assert.InDelta(t, 5.0, s.GetWeight(1, 2), 1e-3)
			assert.InDelta(t, 0.0, s.GetWeight(2, 2), 1e-6)

			v, ok := s.Vector(2)
			require.True(t, ok)
			assert.InDeltaSlice(t, []float32{3, 4, 0}, v, 1e-3)

			_, ok = s.Vector(9)
			assert.False(t, ok)
		})
	}
}

func TestStoreCopiesInput(t *testing.T) {
	s, err := vectors.NewStore(2, "manhattan", vectors.Float32)
	require.NoError(t, err)
	vec := []float32{1, 1}
	require.NoError(t, s.Add(7, vec))
	vec[0] = 100

	got, _ := s.Vector(7)
	assert.Equal(t, []float32{1, 1}, got)
}

func TestCosineNormalisesOnInsert(t *testing.T) {
	s, err := vectors.NewStore(2, "cosine", vectors.Float32)
	require.NoError(t, err)
	require.NoError(t, s.Add(1, []float32{10, 0}))
	require.NoError(t, s.Add(2, []float32{0, 0.5}))

	v, _ := s.Vector(1)
	assert.InDeltaSlice(t, []float32{1, 0}, v, 1e-6)
	assert.InDelta(t, 1.0, s.GetWeight(1, 2), 1e-6)
}

func TestWithQuery(t *testing.T) {
	s, err := vectors.NewStore(2, "euclidean", vectors.Float16)
	require.NoError(t, err)
	require.NoError(t, s.Add(0, []float32{0, 0}))
	require.NoError(t, s.Add(1, []float32{1, 0}))

	calc, err := s.WithQuery(vectors.QueryIndex, []float32{0, 2})
	require.NoError(t, err)
	assert.InDelta(t, 2.0, calc.GetWeight(vectors.QueryIndex, 0), 1e-3)
	assert.InDelta(t, math.Sqrt(5), calc.GetWeight(1, vectors.QueryIndex), 1e-3)
	assert.InDelta(t, 1.0, calc.GetWeight(0, 1), 1e-3)
	assert.False(t, s.Contains(vectors.QueryIndex))

	_, err = s.WithQuery(vectors.QueryIndex, []float32{1})
	assert.ErrorIs(t, err, vectors.ErrDimensionMismatch)
	_, err = s.WithQuery(1, []float32{1, 1})
	assert.ErrorIs(t, err, core.ErrDuplicateIndex)
}

func TestConcurrentQueries(t *testing.T) {
	s, err := vectors.NewStore(4, "squared_euclidean", vectors.Float16)
	require.NoError(t, err)
	for i := uint64(0); i < 100; i++ {
		f := float32(i)
		require.NoError(t, s.Add(i, []float32{f, f, f, f}))
	}

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			calc, err := s.WithQuery(vectors.QueryIndex, []float32{float32(w), float32(w), float32(w), float32(w)})
			if !assert.NoError(t, err) {
				return
			}
			for i := uint64(0); i < 100; i++ {
				d := float64(i) - float64(w)
				assert.InDelta(t, 4*d*d, calc.GetWeight(vectors.QueryIndex, i), 1e-6*(1+4*d*d)+0.5)
			}
		}(w)
	}
	wg.Wait()
}

func TestUnknownIndexPanics(t *testing.T) {
	s, err := vectors.NewStore(1, "euclidean", vectors.Float32)
	require.NoError(t, err)
	require.NoError(t, s.Add(0, []float32{1}))
	assert.Panics(t, func() { s.GetWeight(0, 5) })
}
