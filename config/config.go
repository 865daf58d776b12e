// Package config loads relax.yaml, the run configuration shared by the
// command-line tool, the broker and the benchmark harness.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"uk.ac.bris.cs/relaxation/logging"
	"uk.ac.bris.cs/relaxation/relax"
)

// DefaultPath is where the tools look for a configuration file.
const DefaultPath = "relax.yaml"

const defaultConfigYAML = `# relaxation run configuration
size: 100
precision: 0.01
threads: 4

# Edges that start at 1: top-left (top row and left column) or all-edges.
boundary: top-left
# Interior start values: zero, or random from seed.
fill: zero
seed: 42

# all, debug, info, warn, error or none.
verbosity: none
# Emit a grid snapshot every n iterations (0 = never).
snapshot_every: 0

# Remote mode: the controller dials the broker, the broker dials the workers.
broker: 127.0.0.1:8030
workers:
  - 127.0.0.1:8040
  - 127.0.0.1:8041
`

// Config models relax.yaml.
type Config struct {
	Size          int      `yaml:"size"`
	Precision     float64  `yaml:"precision"`
	Threads       int      `yaml:"threads"`
	Boundary      string   `yaml:"boundary"`
	Fill          string   `yaml:"fill"`
	Seed          int64    `yaml:"seed"`
	Verbosity     string   `yaml:"verbosity"`
	SnapshotEvery int      `yaml:"snapshot_every"`
	Broker        string   `yaml:"broker"`
	Workers       []string `yaml:"workers"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	var c Config
	if err := yaml.Unmarshal([]byte(defaultConfigYAML), &c); err != nil {
		panic(fmt.Sprintf("config: default configuration is invalid: %v", err))
	}
	return c
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return c, nil
		}
		return c, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return c, nil
}

// WriteDefault writes the commented default configuration unless path exists.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// Level parses the verbosity setting.
func (c Config) Level() (logging.Level, error) {
	return logging.ParseLevel(c.Verbosity)
}

// Params builds validated run parameters, logging to log.
func (c Config) Params(log *logging.Logger) (relax.Params, error) {
	boundary, err := relax.ParseBoundary(c.Boundary)
	if err != nil {
		return relax.Params{}, err
	}
	fill, err := relax.ParseFill(c.Fill)
	if err != nil {
		return relax.Params{}, err
	}
	p := relax.Params{
		Size:          c.Size,
		Precision:     c.Precision,
		Threads:       c.Threads,
		Boundary:      boundary,
		Fill:          fill,
		Seed:          c.Seed,
		SnapshotEvery: c.SnapshotEvery,
		Log:           log,
	}
	return p, p.Validate()
}
