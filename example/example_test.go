package example

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/internal/config"
	"github.com/patrikhermansson/hnav/unweighted"
)

func TestRecallAtK(t *testing.T) {
	predicted := []core.Neighbor[float64]{{Index: 3}, {Index: 1}, {Index: 8}}
	assert.Equal(t, 1.0, RecallAtK(predicted, []int{1, 3, 8, 9}, 3))
	assert.InDelta(t, 2.0/3, RecallAtK(predicted, []int{1, 3, 4}, 3), 1e-9)
	assert.Equal(t, 0.5, RecallAtK(predicted[:1], []int{3, 4}, 2))
	assert.Equal(t, 0.0, RecallAtK(predicted, nil, 3))
	assert.Equal(t, 0.0, RecallAtK(predicted, []int{1}, 0))
}

func TestFormat(t *testing.T) {
	res := []core.Neighbor[float64]{{Index: 1, Weight: 0.5}, {Index: 2, Weight: 1}}
	assert.Equal(t, "id=1 (dist=0.500) ", FormatResults(res, 1))
	assert.Equal(t, "id=1 (dist=0.500) id=2 (dist=1.000) ", FormatResults(res, 5))
	assert.Equal(t, "id=7 (dist=0.250) ", FormatGroundTruth([]int{7, 8}, []float64{0.25, 1}, 1))
}

// writeGrid writes a dataset of points on an n x n grid with exact ground truth.
func writeGrid(t *testing.T, n, k int) string {
	t.Helper()
	dir := t.TempDir()
	var train, test, nbrs, dists strings.Builder
	type pt struct{ x, y float64 }
	var points []pt
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			points = append(points, pt{float64(i), float64(j)})
			fmt.Fprintf(&train, "%d,%d\n", i, j)
		}
	}
	queries := []pt{{0.1, 0.2}, {3.4, 4.6}, {float64(n) - 1.2, 2.1}}
	for _, q := range queries {
		fmt.Fprintf(&test, "%g,%g\n", q.x, q.y)
		used := map[int]bool{}
		var ids []string
		var ds []string
		for len(ids) < k {
			best, bestD := -1, math.Inf(1)
			for id, p := range points {
				if used[id] {
					continue
				}
				if d := math.Hypot(p.x-q.x, p.y-q.y); d < bestD {
					best, bestD = id, d
				}
			}
			used[best] = true
			ids = append(ids, fmt.Sprint(best))
			ds = append(ds, fmt.Sprintf("%g", bestD))
		}
		nbrs.WriteString(strings.Join(ids, ",") + "\n")
		dists.WriteString(strings.Join(ds, ",") + "\n")
	}
	for name, sb := range map[string]*strings.Builder{
		"train.csv": &train, "test.csv": &test, "neighbors.csv": &nbrs, "distances.csv": &dists,
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0600))
	}
	return dir
}

func TestLoadDataset(t *testing.T) {
	dir := writeGrid(t, 5, 3)
	ds, err := LoadDataset(dir, 0)
	require.NoError(t, err)
	assert.Len(t, ds.Train, 25)
	assert.Len(t, ds.Test, 3)
	assert.Equal(t, 2, ds.Dimension())
	assert.Len(t, ds.Neighbors[0], 3)
	assert.Equal(t, 0, ds.Neighbors[0][0])

	limited, err := LoadDataset(dir, 10)
	require.NoError(t, err)
	assert.Len(t, limited.Train, 10)

	_, err = LoadDataset(t.TempDir(), 0)
	assert.Error(t, err)
}

func TestRun(t *testing.T) {
	dir := writeGrid(t, 12, 5)
	out := filepath.Join(t.TempDir(), "layer0.bin.zst")
	cfg := &config.Config{
		Seed:    17,
		Dataset: config.DatasetConfig{Dir: dir},
		Query:   config.QueryConfig{K: 5, Threads: 3},
		Export:  config.ExportConfig{Path: out},
	}
	config.ApplyDefaults(cfg)
	require.NoError(t, cfg.Validate())

	report, err := Run(context.Background(), cfg, Options{MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, report.Results, 3)
	for i, r := range report.Results {
		assert.NotEmpty(t, r.Neighbors, "query %d", i)
		assert.LessOrEqual(t, len(r.Neighbors), 5)
	}
	assert.GreaterOrEqual(t, report.AverageRecall, 0.0)
	assert.LessOrEqual(t, report.AverageRecall, 1.0)

	g, err := unweighted.Load[uint64](out, true)
	require.NoError(t, err)
	assert.Equal(t, 144, g.NodeCount())
}

func TestRunQueriesCancelled(t *testing.T) {
	dir := writeGrid(t, 4, 2)
	cfg := &config.Config{Dataset: config.DatasetConfig{Dir: dir}, Query: config.QueryConfig{K: 2, Threads: 1}}
	config.ApplyDefaults(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, cfg, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
