package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/logicossoftware/go-usdz"
	"github.com/logicossoftware/go-usdz/usd"
)

// LimitsConfig mirrors usdz.Limits. Zero values select the library defaults.
type LimitsConfig struct {
	MaxEntries      int    `toml:"max_entries"`
	MaxEntrySize    uint32 `toml:"max_entry_size"`
	MaxInflatedSize uint64 `toml:"max_inflated_size"`
}

// USDConfig controls text layer parsing.
type USDConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// Config is the optional TOML file read by --config.
type Config struct {
	Inflate bool         `toml:"inflate"`
	Limits  LimitsConfig `toml:"limits"`
	USD     USDConfig    `toml:"usd"`
}

// loadConfig reads path, or returns the zero Config when path is empty.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Limits.MaxEntries < 0 {
		return errors.New("limits.max_entries must not be negative")
	}
	if c.USD.MaxDepth < 0 {
		return errors.New("usd.max_depth must not be negative")
	}
	return nil
}

func (c *Config) readOptions() []usdz.ReadOption {
	return []usdz.ReadOption{
		usdz.WithReadLimits(usdz.Limits{
			MaxEntries:      c.Limits.MaxEntries,
			MaxEntrySize:    c.Limits.MaxEntrySize,
			MaxInflatedSize: c.Limits.MaxInflatedSize,
		}),
		usdz.WithInflate(c.Inflate),
	}
}

func (c *Config) usdOptions() []usd.Option {
	return []usd.Option{usd.WithMaxDepth(c.USD.MaxDepth)}
}
