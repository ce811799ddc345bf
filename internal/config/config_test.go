package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 4, s.Workers)
	assert.Equal(t, 2*time.Second, s.Budget)
	assert.Equal(t, "firstfit", s.Strategy)
	assert.True(t, s.CacheEnabled)
	assert.True(t, s.ParallelEnabled)
	assert.Equal(t, 1000, s.CacheCapacity)
	assert.NoError(t, s.Validate())
}

func TestSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	s.Workers = 0
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Budget = 0
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.CacheCapacity = 0
	assert.Error(t, s.Validate())

	s = DefaultSettings()
	s.Strategy = "genetic"
	assert.Error(t, s.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("workers: 8\nbudget: 500ms\nstrategy: bestfit\ncache:\n  enabled: false\n  capacity: 10\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	s, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, s.Workers)
	assert.Equal(t, 500*time.Millisecond, s.Budget)
	assert.Equal(t, "bestfit", s.Strategy)
	assert.False(t, s.CacheEnabled)
	assert.Equal(t, 10, s.CacheCapacity)
	// Untouched keys keep their defaults.
	assert.True(t, s.ParallelEnabled)
	assert.Equal(t, "kanto", s.DefaultZone)
}

func TestLoad_EnvOverrides(t *testing.T) {
	// Point HOME at an empty dir so no config file is picked up.
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SHIPPACK_WORKERS", "8")
	t.Setenv("SHIPPACK_CACHE_ENABLED", "false")
	t.Setenv("SHIPPACK_CACHE_CAPACITY", "7")
	t.Setenv("SHIPPACK_CACHE_NEGATIVE_TTL", "5s")

	s, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8, s.Workers)
	assert.False(t, s.CacheEnabled)
	assert.Equal(t, 7, s.CacheCapacity)
	assert.Equal(t, 5*time.Second, s.NegativeTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, "firstfit", s.Strategy)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 0\n"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}
