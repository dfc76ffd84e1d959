package core

import "errors"

var (
	// ErrNotFound is returned when an index is absent from a graph.
	ErrNotFound = errors.New("node not found")

	// ErrDuplicateIndex is returned when an index is inserted twice.
	ErrDuplicateIndex = errors.New("node index already exists")

	// ErrEmptyIndex is returned when searching before anything was added.
	ErrEmptyIndex = errors.New("index is empty")

	// ErrLevelSampling is returned when the level sampler keeps producing
	// values outside [0, maxLayers).
	ErrLevelSampling = errors.New("level sampling did not converge")

	// ErrInvalidConfig is returned for unusable construction parameters.
	ErrInvalidConfig = errors.New("invalid configuration")
)
