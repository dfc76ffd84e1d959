package example

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/hnsw"
	"github.com/patrikhermansson/hnav/vectors"
)

// Index is the index type built by the benchmark.
type Index = hnsw.Index[core.Item, float64, hnsw.DefaultBase, hnsw.DefaultUpper, hnsw.DefaultCandidates]

// buildBatch is how many vectors go into one Add call between progress updates.
const buildBatch = 256

// BuildIndex stores train in store and inserts every row into ix, using the
// row number as the node index. A progress bar is drawn when progress is set.
func BuildIndex(ix *Index, store *vectors.Store, train [][]float32, progress bool) error {
	var bar *progressbar.ProgressBar
	if progress {
		bar = progressbar.Default(int64(len(train)), "building index")
	}

	batch := make([]core.Item, 0, buildBatch)
	for start := 0; start < len(train); start += buildBatch {
		batch = batch[:0]
		for id := start; id < min(start+buildBatch, len(train)); id++ {
			if err := store.Add(uint64(id), train[id]); err != nil {
				return fmt.Errorf("failed to add vector %d: %w", id, err)
			}
			batch = append(batch, core.Item{ID: uint64(id)})
		}
		if err := ix.Add(batch, store); err != nil {
			return err
		}
		if bar != nil {
			if err := bar.Add(len(batch)); err != nil {
				log.Debug().Err(err).Msg("Progress bar update failed")
			}
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return nil
}

// QueryResult holds the results for a single query.
type QueryResult struct {
	Neighbors []core.Neighbor[float64]
	Recall    float64
	Duration  time.Duration
}

// Report summarises a query run.
type Report struct {
	Results         []QueryResult
	AverageRecall   float64
	AverageResponse time.Duration
	Elapsed         time.Duration
}

// RunQueries searches the k nearest neighbours of every query in ds.Test
// using threads workers and scores them against the ground truth.
func RunQueries(ctx context.Context, ix *Index, store *vectors.Store, ds *Dataset, k, threads int) (*Report, error) {
	if threads < 1 {
		threads = 1
	}
	log.Info().Msgf("Running kNN queries (k=%d) on %d test vectors using %d threads", k, len(ds.Test), threads)
	start := time.Now()
	results := make([]QueryResult, len(ds.Test))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, query := range ds.Test {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			calc, err := store.WithQuery(vectors.QueryIndex, query)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			t := time.Now()
			found, err := ix.Search(core.Item{ID: vectors.QueryIndex}, k, calc)
			if err != nil {
				return fmt.Errorf("query %d: %w", i, err)
			}
			results[i] = QueryResult{
				Neighbors: found,
				Recall:    RecallAtK(found, ds.Neighbors[i], k),
				Duration:  time.Since(t),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &Report{Results: results, Elapsed: time.Since(start)}
	if len(results) == 0 {
		return report, nil
	}
	var total time.Duration
	for _, r := range results {
		report.AverageRecall += r.Recall
		total += r.Duration
	}
	report.AverageRecall /= float64(len(results))
	report.AverageResponse = total / time.Duration(len(results))
	return report, nil
}
