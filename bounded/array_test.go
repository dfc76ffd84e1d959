package bounded_test

import (
	"math"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikhermansson/hnav/bounded"
)

type pairs = bounded.Array[int, float64, bounded.Cap2[int, float64]]

func TestTryAddEvictsHeaviest(t *testing.T) {
	var a pairs

	assert.True(t, a.TryAdd(1, 5.0))
	assert.True(t, a.TryAdd(2, 3.0))
	assert.True(t, a.TryAdd(3, 4.0))

	assert.Equal(t, []int{2, 3}, a.Values())
	assert.Equal(t, []float64{3.0, 4.0}, a.Weights())
	assert.Equal(t, 2, a.Size())
	assert.Equal(t, 2, a.MaxSize())
}

func TestTryAddNonImprovingIsNoop(t *testing.T) {
	var a pairs
	require.True(t, a.TryAdd(1, 1.0))
	require.True(t, a.TryAdd(2, 2.0))

	before := a
	assert.False(t, a.TryAdd(3, 2.0), "equal to MaxWeight must be rejected")
	assert.False(t, a.TryAdd(4, 9.0))
	assert.Equal(t, before, a)
}

func TestEqualWeightsKeepInsertionOrder(t *testing.T) {
	var a bounded.Array[string, int, bounded.Cap4[string, int]]
	a.TryAdd("a", 1)
	a.TryAdd("b", 1)
	a.TryAdd("c", 0)
	a.TryAdd("d", 1)

	assert.Equal(t, []string{"c", "a", "b", "d"}, a.Values())
}

func TestRemoveAtAsPriorityQueue(t *testing.T) {
	var a bounded.Array[uint64, float32, bounded.Cap8[uint64, float32]]
	for i, w := range []float32{0.5, 0.1, 0.9, 0.3} {
		a.TryAdd(uint64(i), w)
	}

	var popped []uint64
	for !a.IsEmpty() {
		popped = append(popped, a.RemoveAt(0))
	}
	assert.Equal(t, []uint64{1, 3, 0, 2}, popped)
	assert.Equal(t, 0, a.Size())
}

func TestRemoveAtMiddle(t *testing.T) {
	var a bounded.Array[int, int, bounded.Cap4[int, int]]
	a.TryAdd(10, 1)
	a.TryAdd(20, 2)
	a.TryAdd(30, 3)

	assert.Equal(t, 20, a.RemoveAt(1))
	assert.Equal(t, []int{10, 30}, a.Values())
	assert.True(t, a.TryAdd(40, 4))
	assert.Equal(t, []int{10, 30, 40}, a.Values())
}

func TestRemoveAtOutOfRangePanics(t *testing.T) {
	var a pairs
	assert.Panics(t, func() { a.RemoveAt(0) })
	a.TryAdd(1, 1)
	assert.Panics(t, func() { a.RemoveAt(1) })
	assert.Panics(t, func() { a.At(-1) })
}

func TestExtremes(t *testing.T) {
	var a bounded.Array[int, float64, bounded.Cap3[int, float64]]
	assert.True(t, math.IsInf(a.MaxWeight(), 1))
	assert.True(t, math.IsInf(a.MinWeight(), 1))
	assert.Equal(t, 0, a.MinValue())
	assert.Equal(t, 0, a.MaxValue())

	a.TryAdd(7, 2.5)
	a.TryAdd(8, -1)
	a.TryAdd(9, 4)

	assert.Equal(t, 8, a.MinValue())
	assert.Equal(t, 9, a.MaxValue())
	assert.Equal(t, -1.0, a.MinWeight())
	assert.Equal(t, 4.0, a.MaxWeight())
	assert.Equal(t, bounded.Entry[int, float64]{Key: 7, Weight: 2.5}, a.At(1))
	assert.True(t, a.IsFull())
}

func TestAllStopsEarly(t *testing.T) {
	var a bounded.Array[int, int, bounded.Cap4[int, int]]
	for i := 0; i < 4; i++ {
		a.TryAdd(i, i)
	}
	var seen []int
	for k := range a.All() {
		seen = append(seen, k)
		if k == 1 {
			break
		}
	}
	assert.Equal(t, []int{0, 1}, seen)
	assert.Len(t, a.Entries(), 4)
}

func TestRandomInsertionsStaySorted(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	var a bounded.Array[int, float64, bounded.Cap16[int, float64]]
	var all []float64

	for i := 0; i < 500; i++ {
		w := rng.Float64()
		a.TryAdd(i, w)
		all = append(all, w)

		require.LessOrEqual(t, a.Size(), a.MaxSize())
		require.True(t, slices.IsSorted(a.Weights()))
	}

	// The array must hold exactly the 16 smallest weights seen.
	slices.Sort(all)
	assert.Equal(t, all[:16], a.Weights())
}
