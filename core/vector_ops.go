package core

import "sync"

// NormalizeVector scales vec in place to unit length. Zero vectors are left unchanged.
func NormalizeVector(vec []float32) {
	if len(vec) == 0 {
		return
	}
	norm := blas.Snrm2(len(vec), vec, 1)
	if norm == 0 {
		return
	}
	blas.Sscal(len(vec), 1/norm, vec, 1)
}

// NormalizeBatch normalizes multiple vectors in a batch using goroutines.
func NormalizeBatch(vecs [][]float32) {
	if len(vecs) == 0 {
		return
	}

	var wg sync.WaitGroup
	for i := range vecs {
		wg.Add(1)
		go func(vec []float32) {
			defer wg.Done()
			NormalizeVector(vec)
		}(vecs[i])
	}

	// Wait for all go routines to finish.
	wg.Wait()
}
