package ricci

import (
	"fmt"
	"gopkg.in/yaml.v3"
	"os"
)

const (
	DefaultRawPath      = "data/raw/ricci.csv"
	DefaultRepairedPath = "data/raw/repaired_ricci.csv"
	DefaultReducedPath  = "data/raw/reduced_ricci.csv"
)

// Config locates the files a Loader reads and writes.
type Config struct {
	// RawPath is the source dataset.
	RawPath string `yaml:"raw"`
	// RepairedPath is read in place of the reduced table when a repaired
	// table is requested.
	RepairedPath string `yaml:"repaired"`
	// ReducedPath is overwritten with the reduced table on every load, so
	// Loaders sharing it race.
	ReducedPath string `yaml:"reduced"`
}

func DefaultConfig() Config {
	return Config{
		RawPath:      DefaultRawPath,
		RepairedPath: DefaultRepairedPath,
		ReducedPath:  DefaultReducedPath,
	}
}

// LoadConfig reads a YAML config file. Keys left out or empty keep their
// defaults.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	err = yaml.Unmarshal(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %q: %w", path, err)
	}

	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RawPath == "" {
		c.RawPath = defaults.RawPath
	}
	if c.RepairedPath == "" {
		c.RepairedPath = defaults.RepairedPath
	}
	if c.ReducedPath == "" {
		c.ReducedPath = defaults.ReducedPath
	}
	return c
}
