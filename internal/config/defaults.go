package config

import "runtime"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Index.Name == "" {
		cfg.Index.Name = "hnav"
	}
	if cfg.Index.MaxLayers == 0 {
		cfg.Index.MaxLayers = 4
	}
	if cfg.Index.LevelRate == 0 {
		cfg.Index.LevelRate = float64(cfg.Index.MaxLayers)
	}
	if cfg.Index.MaxLevelAttempts == 0 {
		cfg.Index.MaxLevelAttempts = 1000
	}
	if cfg.Index.Distance == "" {
		cfg.Index.Distance = "euclidean"
	}
	if cfg.Index.Precision == "" {
		cfg.Index.Precision = "float32"
	}
	if cfg.Query.K == 0 {
		cfg.Query.K = 10
	}
	if cfg.Query.Threads == 0 {
		cfg.Query.Threads = runtime.NumCPU()
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
}
