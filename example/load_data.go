package example

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Dataset is a benchmark dataset: vectors to index, query vectors and the
// exact neighbours of every query.
type Dataset struct {
	Train     [][]float32
	Test      [][]float32
	Neighbors [][]int
	Distances [][]float64
}

// Dimension returns the vector length of the training set.
func (d *Dataset) Dimension() int {
	if len(d.Train) == 0 {
		return 0
	}
	return len(d.Train[0])
}

// LoadDataset loads a dataset from a directory.
// The directory must contain the following files:
//   - train.csv       (vectors to add to the index)
//   - test.csv        (query vectors, not added to the index)
//   - neighbors.csv   (expected neighbor IDs per query)
//   - distances.csv   (expected distances per query)
//
// A positive limit truncates the training set; queries whose ground truth
// points past the limit are then unreliable, so limit is meant for smoke runs.
func LoadDataset(dir string, limit int) (*Dataset, error) {
	log.Info().Msgf("Loading dataset from directory: %s", dir)

	train, err := LoadTrainingVectors(dir)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(train) {
		log.Warn().Msgf("Truncating training set from %d to %d vectors", len(train), limit)
		train = train[:limit]
	}
	for i, vec := range train {
		if len(vec) != len(train[0]) {
			return nil, fmt.Errorf("train.csv row %d has %d columns, want %d", i, len(vec), len(train[0]))
		}
	}

	test, neighbors, distances, err := LoadTestDataset(dir)
	if err != nil {
		return nil, err
	}
	if len(neighbors) < len(test) || len(distances) < len(test) {
		return nil, fmt.Errorf("ground truth covers %d/%d of %d queries", len(neighbors), len(distances), len(test))
	}

	log.Info().Msg("Dataset loaded successfully")
	return &Dataset{Train: train, Test: test, Neighbors: neighbors, Distances: distances}, nil
}

// readCSV is a generic CSV reader for types: int, float32, and float64.
func readCSV[T int | float32 | float64](path string, skipHeader bool) ([][]T, error) {
	log.Debug().Msgf("Opening CSV file: %s", path)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	var result [][]T

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read error in %s: %w", path, err)
		}
		if skipHeader {
			skipHeader = false
			continue
		}
		row := make([]T, len(record))
		for i, val := range record {
			parsed, err := parseValue[T](val)
			if err != nil {
				return nil, fmt.Errorf("parse error at col %d in %s: %w", i, path, err)
			}
			row[i] = parsed
		}
		result = append(result, row)
	}

	log.Debug().Msgf("Parsed %d rows from %s", len(result), path)
	return result, nil
}

// parseValue converts a string to T (int, float32, or float64).
func parseValue[T int | float32 | float64](s string) (T, error) {
	s = strings.TrimSpace(s)
	var zero T
	switch any(zero).(type) {
	case int:
		v, err := strconv.Atoi(s)
		return any(v).(T), err
	case float32:
		v, err := strconv.ParseFloat(s, 32)
		return any(float32(v)).(T), err
	case float64:
		v, err := strconv.ParseFloat(s, 64)
		return any(v).(T), err
	default:
		return zero, fmt.Errorf("unsupported type %T", zero)
	}
}

// LoadTrainingVectors loads training vectors from "train.csv" in the specified directory.
// Row i becomes the vector with index i, matching the ground-truth files.
func LoadTrainingVectors(dir string) ([][]float32, error) {
	trainPath := filepath.Join(dir, "train.csv")
	log.Info().Msgf("Loading training vectors from: %s", trainPath)
	// reuse generic CSV reader (no header in these CSV files)
	vectors, err := readCSV[float32](trainPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load train.csv: %w", err)
	}
	log.Info().Msgf("Loaded %d training vectors from %s", len(vectors), trainPath)
	return vectors, nil
}

// LoadTestDataset loads the test vectors and ground-truth data from the specified directory.
// It returns the test vectors, true neighbor IDs, and true distances (ground-truth).
func LoadTestDataset(dir string) ([][]float32, [][]int, [][]float64, error) {
	testPath := filepath.Join(dir, "test.csv")
	neighborsPath := filepath.Join(dir, "neighbors.csv")
	distancesPath := filepath.Join(dir, "distances.csv")

	log.Info().Msgf("Loading test vectors from: %s", testPath)
	testVectors, err := readCSV[float32](testPath, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load test.csv: %w", err)
	}

	log.Info().Msgf("Loading ground-truth neighbors from: %s", neighborsPath)
	trueNeighbors, err := readCSV[int](neighborsPath, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load neighbors.csv: %w", err)
	}

	log.Info().Msgf("Loading ground-truth distances from: %s", distancesPath)
	trueDistances, err := readCSV[float64](distancesPath, false)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load distances.csv: %w", err)
	}

	return testVectors, trueNeighbors, trueDistances, nil
}
