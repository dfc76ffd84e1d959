// Package config loads the settings of the hnav benchmark command.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Config holds all configuration for the command.
type Config struct {
	Log     string        `yaml:"log"`
	Seed    int64         `yaml:"seed"`
	Dataset DatasetConfig `yaml:"dataset"`
	Index   IndexConfig   `yaml:"index"`
	Query   QueryConfig   `yaml:"query"`
	Metrics MetricsConfig `yaml:"metrics"`
	Export  ExportConfig  `yaml:"export"`
}

// DatasetConfig points at a directory with train.csv, test.csv, neighbors.csv
// and distances.csv.
type DatasetConfig struct {
	Dir   string `yaml:"dir"`
	Limit int    `yaml:"limit"`
}

// IndexConfig holds graph index settings.
type IndexConfig struct {
	Name             string  `yaml:"name"`
	MaxLayers        int     `yaml:"max_layers"`
	LevelRate        float64 `yaml:"level_rate"`
	MaxLevelAttempts int     `yaml:"max_level_attempts"`
	Distance         string  `yaml:"distance"`
	Precision        string  `yaml:"precision"`
}

// QueryConfig holds query settings.
type QueryConfig struct {
	K       int `yaml:"k"`
	Threads int `yaml:"threads"`
}

// MetricsConfig holds the Prometheus endpoint settings. An empty Listen
// disables the endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
	Path   string `yaml:"path"`
}

// ExportConfig controls the layer topology export. An empty Path disables it.
type ExportConfig struct {
	Path     string `yaml:"path"`
	Layer    int    `yaml:"layer"`
	Compress bool   `yaml:"compress"`
}

// Load reads and parses the config file at path, applies environment
// overrides and defaults, and resolves relative paths against the config
// file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Dataset.Dir = expandPath(cfg.Dataset.Dir, configDir)
	cfg.Export.Path = expandPath(cfg.Export.Path, configDir)

	return &cfg, nil
}

// Default returns the defaults with environment overrides applied.
func Default() (*Config, error) {
	var cfg Config
	if err := ApplyEnv(&cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyEnv overrides cfg from HNAV_LOG, HNAV_SEED and HNAV_BENCH_NTRD.
func ApplyEnv(cfg *Config) error {
	if v, ok := os.LookupEnv("HNAV_LOG"); ok {
		cfg.Log = v
	}
	if v, ok := os.LookupEnv("HNAV_SEED"); ok && strings.TrimSpace(v) != "" {
		seed, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("%w: HNAV_SEED=%q: %w", ErrInvalid, v, err)
		}
		cfg.Seed = seed
	}
	if v, ok := os.LookupEnv("HNAV_BENCH_NTRD"); ok && strings.TrimSpace(v) != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: HNAV_BENCH_NTRD=%q: %w", ErrInvalid, v, err)
		}
		cfg.Query.Threads = n
	}
	return nil
}

// Validate reports settings that cannot work.
func (c *Config) Validate() error {
	var errs []error
	if c.Dataset.Dir == "" {
		errs = append(errs, errors.New("dataset.dir is required"))
	}
	if c.Index.MaxLayers < 1 {
		errs = append(errs, fmt.Errorf("index.max_layers must be at least 1, got %d", c.Index.MaxLayers))
	}
	if !(c.Index.LevelRate > 0) || math.IsInf(c.Index.LevelRate, 0) {
		errs = append(errs, fmt.Errorf("index.level_rate must be positive and finite, got %v", c.Index.LevelRate))
	}
	if c.Query.K < 1 {
		errs = append(errs, fmt.Errorf("query.k must be positive, got %d", c.Query.K))
	}
	if c.Query.Threads < 1 {
		errs = append(errs, fmt.Errorf("query.threads must be positive, got %d", c.Query.Threads))
	}
	if c.Export.Path != "" && (c.Export.Layer < 0 || c.Export.Layer >= c.Index.MaxLayers) {
		errs = append(errs, fmt.Errorf("export.layer %d outside [0, %d)", c.Export.Layer, c.Index.MaxLayers))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
}

// expandPath makes relative paths relative to configDir.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(configDir, path)
}
