package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("MissingDefaultFile", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("MissingExplicitFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("OverridesDefaults", func(t *testing.T) {
		path := writeConfig(t, `
log:
  level: debug
  format: json
memory_limit: 1048576
points:
  block_size: 4
  offset: 4
`)
		cfg, err := Load(path)
		require.NoError(t, err)

		level, err := cfg.Log.SlogLevel()
		require.NoError(t, err)
		assert.Equal(t, slog.LevelDebug, level)
		assert.True(t, cfg.Log.JSON())
		assert.Equal(t, int64(1<<20), cfg.MemoryLimit)
		assert.Equal(t, 4, cfg.Points.BlockSize)
		assert.Equal(t, 4, cfg.Points.Offset)
		assert.Equal(t, "points", cfg.Points.Table, "unset keys keep defaults")
		assert.Equal(t, []string{"x", "y", "z"}, cfg.Points.Columns)
	})

	t.Run("InvalidYAML", func(t *testing.T) {
		_, err := Load(writeConfig(t, "log: [\n"))
		assert.Error(t, err)
	})

	t.Run("Invalid", func(t *testing.T) {
		_, err := Load(writeConfig(t, "points:\n  block_size: 3\n  offset: 4\n"))
		assert.ErrorContains(t, err, "points.offset")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		want   string
	}{
		{"LogLevel", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"LogFormat", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"MemoryLimit", func(c *Config) { c.MemoryLimit = -1 }, "memory_limit"},
		{"MaxHandles", func(c *Config) { c.MaxHandles = -1 }, "max_handles"},
		{"BlockSize", func(c *Config) { c.Points.BlockSize = 2 }, "block_size"},
		{"UnalignedOffset", func(c *Config) { c.Points.Offset = 2 }, "points.offset"},
		{"HeaderBytes", func(c *Config) { c.Points.HeaderBytes = -4 }, "header_bytes"},
		{"Columns", func(c *Config) { c.Points.Columns = []string{"x"} }, "points.columns"},
	}

	require.NoError(t, Default().Validate())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.MemoryLimit = 4096
	cfg.Log.Format = "json"

	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}
