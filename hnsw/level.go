package hnsw

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/patrikhermansson/hnav/core"
)

// GetRandomLevel draws samples until one lies in [0, maxLayers) and returns
// it truncated to a layer. Negative samples are rejected rather than truncated
// towards zero, as are NaN and values too large for the layer range.
// It fails with core.ErrLevelSampling once the attempt cap is spent.
func (ix *Index[T, W, L0, LN, EF]) GetRandomLevel() (int, error) {
	limit := W(ix.maxLayers)
	for attempt := 1; ix.maxLevelAttempts <= 0 || attempt <= ix.maxLevelAttempts; attempt++ {
		sample := ix.sampler.Sample()
		if sample >= 0 && sample < limit {
			return int(sample), nil
		}
		ix.metrics.LevelRejected()
		log.Debug().Msgf("Rejected level sample %v for index %q (maxLayers=%d)", sample, ix.name, ix.maxLayers)
	}
	log.Warn().Msgf("Level sampling for index %q gave up after %d attempts", ix.name, ix.maxLevelAttempts)
	return 0, fmt.Errorf("%w: %d samples outside [0, %d)", core.ErrLevelSampling, ix.maxLevelAttempts, ix.maxLayers)
}

// ExponentialSampler draws node levels from an exponential distribution whose
// rate is the layer count, so each layer is roughly e^maxLayers times sparser
// than the one below it.
type ExponentialSampler[W core.Weight] struct {
	dist distuv.Exponential
}

// NewExponentialSampler returns a sampler for an index with maxLayers layers
// seeded from HNAV_SEED or the clock.
func NewExponentialSampler[W core.Weight](maxLayers int) *ExponentialSampler[W] {
	return NewSeededExponentialSampler[W](maxLayers, uint64(core.GetSeed()))
}

// NewSeededExponentialSampler is NewExponentialSampler with an explicit seed.
func NewSeededExponentialSampler[W core.Weight](maxLayers int, seed uint64) *ExponentialSampler[W] {
	return NewExponentialSamplerWithRate[W](float64(maxLayers), seed)
}

// NewExponentialSamplerWithRate returns a sampler with an arbitrary rate.
func NewExponentialSamplerWithRate[W core.Weight](rate float64, seed uint64) *ExponentialSampler[W] {
	return &ExponentialSampler[W]{
		dist: distuv.Exponential{
			Rate: rate,
			Src:  rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		},
	}
}

// Sample draws one value.
func (s *ExponentialSampler[W]) Sample() W {
	return W(s.dist.Rand())
}
