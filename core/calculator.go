package core

// WeightCalculator computes the cost between two node indices known to a graph.
// No symmetry or metric property is required, but search quality depends on
// it behaving like a consistent distance.
type WeightCalculator[W Weight] interface {
	GetWeight(a, b uint64) W
}

// WeightFunc adapts a plain function to WeightCalculator.
type WeightFunc[W Weight] func(a, b uint64) W

// GetWeight calls f(a, b).
func (f WeightFunc[W]) GetWeight(a, b uint64) W { return f(a, b) }

// Sampler draws values from a continuous distribution. The index uses it to
// assign layers to new nodes.
type Sampler[W Weight] interface {
	Sample() W
}

// SamplerFunc adapts a plain function to Sampler.
type SamplerFunc[W Weight] func() W

// Sample calls f.
func (f SamplerFunc[W]) Sample() W { return f() }
