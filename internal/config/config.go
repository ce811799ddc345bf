// Package config defines the runtime settings for the optimization engine:
// worker pool size, time budget, caching policy, and placement strategy.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds engine configuration. Every knob is individually
// honorable: disabling caching or parallelism changes latency, never
// answers.
type Settings struct {
	// Workers is the size of the candidate evaluation pool.
	Workers int `json:"workers"`
	// Budget is the wall-clock limit per optimize call.
	Budget time.Duration `json:"budget"`
	// Strategy selects the placement strategy: "firstfit" or "bestfit".
	Strategy string `json:"strategy"`
	// DefaultZone is used when a request names no destination zone.
	DefaultZone string `json:"default_zone"`

	// CacheEnabled toggles the result cache.
	CacheEnabled bool `json:"cache_enabled"`
	// CacheTTL is how long a computed result stays valid.
	CacheTTL time.Duration `json:"cache_ttl"`
	// NegativeTTL is the short lifetime of cached failures, so repeated
	// unfulfillable requests do not recompute every time.
	NegativeTTL time.Duration `json:"negative_ttl"`
	// CacheCapacity bounds the entry count before LRU eviction.
	CacheCapacity int `json:"cache_capacity"`

	// ParallelEnabled runs candidate evaluations on the worker pool;
	// when false candidates run sequentially in the same order.
	ParallelEnabled bool `json:"parallel_enabled"`
}

// DefaultSettings returns the built-in configuration.
func DefaultSettings() Settings {
	return Settings{
		Workers:         4,
		Budget:          2 * time.Second,
		Strategy:        "firstfit",
		DefaultZone:     "kanto",
		CacheEnabled:    true,
		CacheTTL:        time.Hour,
		NegativeTTL:     30 * time.Second,
		CacheCapacity:   1000,
		ParallelEnabled: true,
	}
}

// Validate rejects settings the engine cannot honor.
func (s Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", s.Workers)
	}
	if s.Budget <= 0 {
		return fmt.Errorf("budget must be positive, got %s", s.Budget)
	}
	if s.CacheCapacity < 1 {
		return fmt.Errorf("cache capacity must be at least 1, got %d", s.CacheCapacity)
	}
	if s.Strategy != "firstfit" && s.Strategy != "bestfit" {
		return fmt.Errorf("unknown strategy %q", s.Strategy)
	}
	return nil
}

// DefaultConfigDir returns the directory for configuration and catalog
// files, ~/.shippack on all platforms.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".shippack")
}

// Load reads settings from an optional YAML config file and SHIPPACK_*
// environment variables layered over the defaults. An empty cfgFile falls
// back to ~/.shippack/config.yaml; a missing file is not an error.
func Load(cfgFile string) (Settings, error) {
	v := viper.New()

	defaults := DefaultSettings()
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("budget", defaults.Budget)
	v.SetDefault("strategy", defaults.Strategy)
	v.SetDefault("default_zone", defaults.DefaultZone)
	v.SetDefault("cache.enabled", defaults.CacheEnabled)
	v.SetDefault("cache.ttl", defaults.CacheTTL)
	v.SetDefault("cache.negative_ttl", defaults.NegativeTTL)
	v.SetDefault("cache.capacity", defaults.CacheCapacity)
	v.SetDefault("parallel", defaults.ParallelEnabled)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigFile(filepath.Join(DefaultConfigDir(), "config.yaml"))
		v.SetConfigType("yaml")
	}
	v.SetEnvPrefix("SHIPPACK")
	// Nested keys map to underscored env names: cache.enabled is
	// SHIPPACK_CACHE_ENABLED.
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// The default config file is optional; an explicitly named one is not.
		if cfgFile != "" {
			return Settings{}, fmt.Errorf("read config %s: %w", cfgFile, err)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return Settings{}, fmt.Errorf("read config: %w", err)
		}
	}

	s := Settings{
		Workers:         v.GetInt("workers"),
		Budget:          v.GetDuration("budget"),
		Strategy:        v.GetString("strategy"),
		DefaultZone:     v.GetString("default_zone"),
		CacheEnabled:    v.GetBool("cache.enabled"),
		CacheTTL:        v.GetDuration("cache.ttl"),
		NegativeTTL:     v.GetDuration("cache.negative_ttl"),
		CacheCapacity:   v.GetInt("cache.capacity"),
		ParallelEnabled: v.GetBool("parallel"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}
