package core

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/blas/gonum"
)

// Distances is a map of human-readable names to distance functions.
// You can use it to choose a distance metric by name.
var Distances = map[string]DistanceFunc{
	"euclidean":         Euclidean,
	"squared_euclidean": SquaredEuclidean,
	"manhattan":         Manhattan,
	"cosine":            CosineDistance,
	"angular":           AngularDistance,
}

// DistanceFunc computes the distance between two vectors.
// a: the first vector.
// b: the second vector.
// Returns the computed distance as a float64.
type DistanceFunc func(a, b []float32) float64

var blas = gonum.Implementation{}

// diffPool holds scratch buffers for the difference of two vectors.
var diffPool = sync.Pool{
	New: func() interface{} {
		s := make([]float32, 0, 1024)
		return &s
	},
}

func checkVectors(a, b []float32) {
	if len(a) == 0 || len(b) == 0 {
		panic("vectors must not be empty")
	}
	if len(a) != len(b) {
		panic("vectors must have the same length")
	}
}

// withDiff calls fn with a pooled buffer holding a-b.
func withDiff(a, b []float32, fn func(diff []float32) float64) float64 {
	n := len(a)
	buf := diffPool.Get().(*[]float32)
	defer diffPool.Put(buf)
	if cap(*buf) < n {
		*buf = make([]float32, n)
	}
	diff := (*buf)[:n]
	copy(diff, a)
	blas.Saxpy(n, -1, b, 1, diff, 1)
	return fn(diff)
}

// Euclidean computes the Euclidean (L2) distance between two vectors.
func Euclidean(a, b []float32) float64 {
	checkVectors(a, b)
	return withDiff(a, b, func(diff []float32) float64 {
		return math.Sqrt(float64(blas.Sdot(len(diff), diff, 1, diff, 1)))
	})
}

// SquaredEuclidean computes the squared Euclidean distance between two vectors.
func SquaredEuclidean(a, b []float32) float64 {
	checkVectors(a, b)
	return withDiff(a, b, func(diff []float32) float64 {
		return float64(blas.Sdot(len(diff), diff, 1, diff, 1))
	})
}

// Manhattan computes the Manhattan (L1) distance between two vectors.
func Manhattan(a, b []float32) float64 {
	checkVectors(a, b)
	return withDiff(a, b, func(diff []float32) float64 {
		return float64(blas.Sasum(len(diff), diff, 1))
	})
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector has zero length.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	dot := float64(blas.Sdot(n, a, 1, b, 1))
	na := float64(blas.Sdot(n, a, 1, a, 1))
	nb := float64(blas.Sdot(n, b, 1, b, 1))
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / math.Sqrt(na*nb)
	// Clamp rounding noise so acos stays defined.
	return math.Max(-1, math.Min(1, sim))
}

// CosineDistance computes the cosine distance between two vectors.
func CosineDistance(a, b []float32) float64 {
	checkVectors(a, b)
	return 1 - cosineSimilarity(a, b)
}

// AngularDistance computes the angle in radians between two vectors.
func AngularDistance(a, b []float32) float64 {
	checkVectors(a, b)
	return math.Acos(cosineSimilarity(a, b))
}
