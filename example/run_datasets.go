package example

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/hnsw"
	"github.com/patrikhermansson/hnav/internal/config"
	"github.com/patrikhermansson/hnav/metrics"
	"github.com/patrikhermansson/hnav/unweighted"
	"github.com/patrikhermansson/hnav/vectors"
)

// Options tunes Run beyond the config file.
type Options struct {
	// Registerer receives the index metrics. Nil disables them.
	Registerer prometheus.Registerer
	// Progress draws a progress bar while building.
	Progress bool
	// MaxResults is how many neighbours per query are printed; 0 prints none.
	MaxResults int
}

// Run loads the dataset described by cfg, builds the index, runs the queries
// and optionally exports a layer topology. It prints a summary to stdout.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Report, error) {
	overallStart := time.Now()

	ds, err := LoadDataset(cfg.Dataset.Dir, cfg.Dataset.Limit)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Loaded dataset %s: %d training and %d test vectors\n", cfg.Dataset.Dir, len(ds.Train), len(ds.Test))

	precision, err := vectors.ParsePrecision(cfg.Index.Precision)
	if err != nil {
		return nil, err
	}
	store, err := vectors.NewStore(ds.Dimension(), cfg.Index.Distance, precision)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = core.GetSeed()
	}
	sampler := hnsw.NewExponentialSamplerWithRate[float64](cfg.Index.LevelRate, uint64(seed))

	indexOpts := []hnsw.Option{
		hnsw.WithName(cfg.Index.Name),
		hnsw.WithMaxLevelAttempts(cfg.Index.MaxLevelAttempts),
		hnsw.WithCapacity(len(ds.Train)),
	}
	if opts.Registerer != nil {
		indexOpts = append(indexOpts, hnsw.WithMetrics(metrics.New(opts.Registerer, "hnav")))
	}
	ix, err := hnsw.NewDefault[core.Item](cfg.Index.MaxLayers, sampler, indexOpts...)
	if err != nil {
		return nil, err
	}

	buildStart := time.Now()
	if err := BuildIndex(ix, store, ds.Train, opts.Progress); err != nil {
		return nil, err
	}
	stats := ix.Stats()
	fmt.Printf("Indexed %d vectors (%d dimensions) in %.2fs; distance: %s; layers: %v\n",
		stats.Count, store.Dimension(), time.Since(buildStart).Seconds(), store.Metric(), stats.LayerSizes)
	log.Info().Msgf("Entry point %d at layer %d", stats.EntryPointIndex, stats.EntryPointLayer)

	if cfg.Export.Path != "" {
		if err := ExportTopology(ix, cfg.Export.Path, cfg.Export.Layer, cfg.Export.Compress); err != nil {
			return nil, err
		}
	}

	report, err := RunQueries(ctx, ix, store, ds, cfg.Query.K, cfg.Query.Threads)
	if err != nil {
		return nil, err
	}

	if opts.MaxResults > 0 {
		for i, res := range report.Results {
			fmt.Printf("Query #%d:\n", i+1)
			fmt.Printf(" -> Predicted:     %s\n", FormatResults(res.Neighbors, opts.MaxResults))
			fmt.Printf(" -> Ground-truth:  %s\n", FormatGroundTruth(ds.Neighbors[i], ds.Distances[i], opts.MaxResults))
			fmt.Printf(" -> Recall@%d:     %.2f, Response time: %v\n", cfg.Query.K, res.Recall, res.Duration)
		}
	}
	fmt.Printf("Average Recall@%d over %d queries: %.2f\n", cfg.Query.K, len(report.Results), report.AverageRecall)
	fmt.Printf("Average query response time: %v\n", report.AverageResponse)
	fmt.Printf("Overall runtime: %v\n", time.Since(overallStart))
	return report, nil
}

// ExportTopology writes the adjacency of one index layer in the unweighted
// graph layout.
func ExportTopology(ix *Index, path string, layer int, compress bool) error {
	g, err := ix.Topology(layer)
	if err != nil {
		return err
	}
	if err := unweighted.Save(path, g, compress); err != nil {
		return fmt.Errorf("failed to export layer %d: %w", layer, err)
	}
	log.Info().Msgf("Exported layer %d (%d nodes, %d edges) to %s", layer, g.NodeCount(), g.EdgeCount(), path)
	return nil
}
