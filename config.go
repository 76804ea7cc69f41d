package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds run options. Values are layered: defaults, then the YAML
// file, then SCROLL_* environment variables, then command-line flags.
type Config struct {
	// Pruning enables the master-scroll reachability bound.
	Pruning bool `yaml:"pruning" env:"SCROLL_PRUNING"`
	// Depth is how many scroll levels of the strategy tree are printed.
	Depth int `yaml:"depth" env:"SCROLL_DEPTH"`
	// JSON switches output to a JSON report.
	JSON bool `yaml:"json" env:"SCROLL_JSON"`
	// Verbose enables debug logging to stderr.
	Verbose bool `yaml:"verbose" env:"SCROLL_VERBOSE"`
	// DBPath is the SQLite run history; empty disables recording.
	DBPath string `yaml:"db" env:"SCROLL_DB"`
	// MetricsFile receives Prometheus text-format metrics after a solve.
	MetricsFile string `yaml:"metricsFile" env:"SCROLL_METRICS_FILE"`
}

// MaxDepth caps Depth. Shared subtrees are printed again wherever they
// occur, so the rendered tree grows exponentially with depth.
const MaxDepth = 12

// DefaultConfig returns the default run options.
func DefaultConfig() Config {
	return Config{
		Pruning: true,
		Depth:   2,
	}
}

// LoadConfig applies an optional YAML file and the environment on top of
// DefaultConfig. A missing path is not an error; an unreadable file is.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects option values no command can act on.
func (c Config) Validate() error {
	if c.Depth < 0 || c.Depth > MaxDepth {
		return fmt.Errorf("depth must be in 0..%d, got %d", MaxDepth, c.Depth)
	}
	return nil
}

func newLogger(w io.Writer, cfg Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
