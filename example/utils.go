package example

import (
	"fmt"
	"strings"

	"github.com/patrikhermansson/hnav/core"
)

// FormatResults returns a formatted string of neighbor results.
// maxResults specifies how many items to include.
func FormatResults(results []core.Neighbor[float64], maxResults int) string {
	var sb strings.Builder
	for _, n := range results[:min(maxResults, len(results))] {
		fmt.Fprintf(&sb, "id=%d (dist=%.3f) ", n.Index, n.Weight)
	}
	return sb.String()
}

// FormatGroundTruth returns a formatted string of ground-truth neighbor results.
// maxResults specifies how many items to include.
func FormatGroundTruth(neighbors []int, distances []float64, maxResults int) string {
	var sb strings.Builder
	limit := min(maxResults, len(neighbors), len(distances))
	for j := 0; j < limit; j++ {
		fmt.Fprintf(&sb, "id=%d (dist=%.3f) ", neighbors[j], distances[j])
	}
	return sb.String()
}

// RecallAtK computes Recall@k as the fraction of the k true nearest neighbors
// that appear in the top k predictions.
func RecallAtK(predicted []core.Neighbor[float64], groundTruth []int, k int) float64 {
	if k <= 0 || len(groundTruth) == 0 {
		return 0.0
	}
	truth := groundTruth[:min(k, len(groundTruth))]

	// Build a set of predicted IDs from the top k predictions.
	predSet := make(map[uint64]struct{}, k)
	for _, n := range predicted[:min(k, len(predicted))] {
		predSet[n.Index] = struct{}{}
	}

	correct := 0
	for _, id := range truth {
		if id < 0 {
			continue
		}
		if _, ok := predSet[uint64(id)]; ok {
			correct++
		}
	}
	return float64(correct) / float64(len(truth))
}
