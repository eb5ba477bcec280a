package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, "playful", cfg.Personality.Mood)
	assert.Equal(t, 5, cfg.Personality.ChaosLevel)
	assert.Equal(t, "python3", cfg.Transform.PythonBin)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("KINDA_MOOD", "")
	t.Setenv("KINDA_CHAOS_LEVEL", "")
	t.Setenv("KINDA_SEED", "")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Personality, cfg.Personality)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinda.yaml")
	data := `framework:
  log_level: debug
personality:
  mood: chaotic
  chaos_level: 9
  seed: 1234
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Framework.LogLevel)
	assert.Equal(t, "chaotic", cfg.Personality.Mood)
	assert.Equal(t, 9, cfg.Personality.ChaosLevel)
	assert.Equal(t, int64(1234), cfg.Personality.Seed)
	// Sections absent from the file keep their defaults.
	assert.Equal(t, "python3", cfg.Transform.PythonBin)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinda.yaml")
	require.NoError(t, os.WriteFile(path, []byte("personality:\n  mood: cautious\n"), 0644))

	t.Setenv("KINDA_MOOD", "reliable")
	t.Setenv("KINDA_CHAOS_LEVEL", "2")
	t.Setenv("KINDA_SEED", "77")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "reliable", cfg.Personality.Mood)
	assert.Equal(t, 2, cfg.Personality.ChaosLevel)
	assert.Equal(t, int64(77), cfg.Personality.Seed)
}

func TestEnvUnparseableValuesIgnored(t *testing.T) {
	t.Setenv("KINDA_CHAOS_LEVEL", "lots")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Personality.ChaosLevel)
}

func TestSaveRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinda.yaml")
	cfg := DefaultConfig()
	cfg.Personality.Mood = "chaotic"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Personality, loaded.Personality)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Personality.Mood = "grumpy"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Personality.ChaosLevel = 11
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Transform.PythonBin = ""
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Validation.Tolerance = 0
	assert.Error(t, cfg.Validate())
}
