// Package config provides file-based configuration for applications
// embedding a resource pool. Settings are stored as TOML and convert
// directly into a pool.Config. The file is optional: Load falls back to
// defaults when it is absent, and rejects keys it does not know so typos
// surface immediately instead of silently running a mis-sized pool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/go-i2p/respool/lib/pool"
)

// Default configuration values
const (
	DefaultMax            = 1
	DefaultMin            = 0
	DefaultPriorityRange  = 1
	DefaultNumTestsPerRun = 3
)

// Config holds the on-disk pool configuration.
type Config struct {
	Pool       PoolConfig       `toml:"pool"`
	Validation ValidationConfig `toml:"validation"`
	Eviction   EvictionConfig   `toml:"eviction"`
}

// PoolConfig contains the sizing and dispatch settings.
type PoolConfig struct {
	// Max is the upper bound on pooled resources
	Max int `toml:"max"`
	// Min is the lower bound maintained opportunistically
	Min int `toml:"min"`
	// FIFO selects the return-to-idle policy (true: longest idle first)
	FIFO bool `toml:"fifo"`
	// PriorityRange is the number of acquire priority classes
	PriorityRange int `toml:"priority_range"`
	// AcquireTimeout bounds how long an acquire may wait (0 disables)
	AcquireTimeout time.Duration `toml:"acquire_timeout"`
	// AutoStart begins pre-warming on construction
	AutoStart bool `toml:"autostart"`
}

// ValidationConfig contains the resource health check settings.
type ValidationConfig struct {
	// TestOnBorrow validates resources before handing them out
	TestOnBorrow bool `toml:"test_on_borrow"`
	// TestOnReturn validates resources when they come back
	TestOnReturn bool `toml:"test_on_return"`
}

// EvictionConfig contains the idle sweep settings.
type EvictionConfig struct {
	// IdleTimeout is how long a resource may sit idle before eviction
	// (0 disables idle expiry)
	IdleTimeout time.Duration `toml:"idle_timeout"`
	// RunInterval is the sweep period (0 disables the sweep)
	RunInterval time.Duration `toml:"run_interval"`
	// NumTestsPerRun caps how many idle resources one sweep inspects
	NumTestsPerRun int `toml:"num_tests_per_run"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Pool: PoolConfig{
			Max:           DefaultMax,
			Min:           DefaultMin,
			FIFO:          true,
			PriorityRange: DefaultPriorityRange,
			AutoStart:     true,
		},
		Eviction: EvictionConfig{
			NumTestsPerRun: DefaultNumTestsPerRun,
		},
	}
}

// Load reads a pool configuration from a TOML file. A missing file is
// not an error: embedders treat the file as optional and run on the
// defaults. Keys the schema does not know are rejected, and knobs left
// at zero fall back to their defaults before validation.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("pool config %s: %w", path, err)
	}
	defer f.Close()

	cfg := DefaultConfig()
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("pool config %s: unknown keys:\n%s", path, strict.String())
		}
		return nil, fmt.Errorf("pool config %s: %w", path, err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pool config %s: %w", path, err)
	}

	return cfg, nil
}

// applyDefaults backfills sizing knobs an edited file may have zeroed;
// an explicit zero for these means "use the default", since a pool with
// no capacity or no priority lanes cannot exist.
func (c *Config) applyDefaults() {
	if c.Pool.Max == 0 {
		c.Pool.Max = DefaultMax
	}
	if c.Pool.PriorityRange == 0 {
		c.Pool.PriorityRange = DefaultPriorityRange
	}
	if c.Eviction.NumTestsPerRun == 0 {
		c.Eviction.NumTestsPerRun = DefaultNumTestsPerRun
	}
}

// Save writes the configuration to path, creating parent directories as
// needed. The file opens with a marker comment so hand edits keep their
// context.
func (c *Config) Save(path string) error {
	body, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("pool config %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("pool config %s: %w", path, err)
	}

	out := append([]byte("# respool pool configuration\n\n"), body...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("pool config %s: %w", path, err)
	}

	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	return c.PoolConfig().Validate()
}

// PoolConfig converts the file settings into a pool.Config.
func (c *Config) PoolConfig() pool.Config {
	return pool.Config{
		MaxSize:          c.Pool.Max,
		MinSize:          c.Pool.Min,
		FIFO:             c.Pool.FIFO,
		PriorityRange:    c.Pool.PriorityRange,
		TestOnBorrow:     c.Validation.TestOnBorrow,
		TestOnReturn:     c.Validation.TestOnReturn,
		AcquireTimeout:   c.Pool.AcquireTimeout,
		IdleTimeout:      c.Eviction.IdleTimeout,
		EvictionInterval: c.Eviction.RunInterval,
		NumTestsPerRun:   c.Eviction.NumTestsPerRun,
		AutoStart:        c.Pool.AutoStart,
	}
}
