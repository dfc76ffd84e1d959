package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/patrikhermansson/hnav/core"
	"github.com/patrikhermansson/hnav/example"
	"github.com/patrikhermansson/hnav/internal/config"
)

// Execute parses args, loads the configuration and runs the benchmark.
func Execute(ctx context.Context, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("hnav", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "", "path to the YAML config file")
	dataset := fs.String("dataset", "", "dataset directory, overrides dataset.dir")
	show := fs.Int("show", 0, "print the first N neighbours of every query")
	progress := fs.Bool("progress", true, "draw a progress bar while building")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	if *dataset != "" {
		cfg.Dataset.Dir = *dataset
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	core.SetLogLevel(cfg.Log)
	log.Info().Msgf("CPU features: %s", strings.Join(core.CPUFeatures(), ","))

	opts := example.Options{Progress: *progress, MaxResults: *show}
	if cfg.Metrics.Listen != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts.Registerer = reg
		stop := serveMetrics(cfg.Metrics.Listen, cfg.Metrics.Path, reg)
		defer stop()
	}

	_, err = example.Run(ctx, cfg, opts)
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default()
	}
	return config.Load(path)
}

// serveMetrics exposes reg on addr in the background and returns a function
// that shuts the server down.
func serveMetrics(addr, path string, reg *prometheus.Registry) func() {
	mux := http.NewServeMux()
	mux.Handle(path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Msgf("Serving metrics on %s%s", addr, path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Metrics server failed")
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "metrics server shutdown: %v\n", err)
		}
	}
}
