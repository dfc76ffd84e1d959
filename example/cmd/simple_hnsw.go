//go:build ignore
// +build ignore

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/hnsw"
	"github.com/patrikhermansson/hnav/unweighted"
	"github.com/patrikhermansson/hnav/vectors"
)

// Note: level assignment is random; set HNAV_SEED to make runs repeatable.

func main() {

	// Set the logger to output to the console.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Index parameters.
	dim := 6
	maxLayers := 3
	distanceName := "euclidean"

	store, err := vectors.NewStore(dim, distanceName, vectors.Float32)
	if err != nil {
		log.Fatal().Err(err).Msg("NewStore failed")
	}
	index, err := hnsw.NewDefault[core.Item](maxLayers, hnsw.NewExponentialSampler[float64](maxLayers))
	if err != nil {
		log.Fatal().Err(err).Msg("NewDefault failed")
	}
	fmt.Println("Created new HNSW index.")

	// Add a few vectors.
	fmt.Println("Adding vectors...")
	data := [][]float32{
		{1, 2, 3, 4, 5, 6},
		{6, 5, 4, 3, 2, 1},
		{1, 1, 1, 1, 1, 1},
		{2, 2, 2, 2, 2, 2},
		{3, 3, 3, 3, 3, 3},
		{4, 4, 4, 4, 4, 4},
		{5, 5, 5, 5, 5, 5},
		{6, 6, 6, 6, 6, 6},
		{7, 7, 7, 7, 7, 7},
		{8, 8, 8, 8, 8, 8},
	}
	items := make([]core.Item, len(data))
	for id, vec := range data {
		if err := store.Add(uint64(id), vec); err != nil {
			log.Fatal().Msgf("Add failed for id %d: %v", id, err)
		}
		items[id] = core.Item{ID: uint64(id)}
	}
	if err := index.Add(items, store); err != nil {
		log.Fatal().Err(err).Msg("Index add failed")
	}
	fmt.Printf("Index stats after Add: %+v\n", index.Stats())

	// Search for the nearest neighbors of a query vector.
	query := []float32{1, 2, 3, 4, 5, 5}
	fmt.Println("Searching nearest neighbors for vector:", query)
	calc, err := store.WithQuery(vectors.QueryIndex, query)
	if err != nil {
		log.Fatal().Err(err).Msg("WithQuery failed")
	}
	neighbors, err := index.Search(core.Item{ID: vectors.QueryIndex}, 2, calc)
	if err != nil {
		log.Fatal().Msgf("Search failed: %v", err)
	}
	fmt.Println("Search results:")
	for _, n := range neighbors {
		fmt.Printf("ID: %d, Distance: %f\n", n.Index, n.Weight)
	}

	// Walk the base layer.
	fmt.Print("Reachable from node 0:")
	for id := range index.BreadthFirstSearch(0) {
		fmt.Printf(" %d", id)
	}
	fmt.Println()

	// Export the base layer and read it back.
	filePath := filepath.Join(os.TempDir(), "hnsw_layer0.bin.zst")
	topology, err := index.Topology(0)
	if err != nil {
		log.Fatal().Err(err).Msg("Topology failed")
	}
	if err := unweighted.Save(filePath, topology, true); err != nil {
		log.Fatal().Msgf("Save failed: %v", err)
	}
	loaded, err := unweighted.Load[uint64](filePath, true)
	if err != nil {
		log.Fatal().Msgf("Load failed: %v", err)
	}
	fmt.Printf("Loaded layer 0 topology: %d nodes, %d edges\n", loaded.NodeCount(), loaded.EdgeCount())

	// Remove the file now that we don't need it anymore.
	if err := os.Remove(filePath); err != nil {
		log.Printf("Warning: could not remove temporary file %s: %v", filePath, err)
	}
}
