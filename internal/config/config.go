// Package config loads the closestpos CLI configuration file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the working directory when no
// path is given.
const FileName = "closestpos.yaml"

// LogConfig selects the CLI logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PointsConfig describes how point files are turned into record arrays.
type PointsConfig struct {
	// BlockSize is the number of 4-byte cells per record of generated arrays.
	BlockSize int `yaml:"block_size"`
	// Offset is the byte offset of the coordinate triple inside a record.
	Offset int `yaml:"offset"`
	// HeaderBytes is skipped at the start of raw binary files.
	HeaderBytes int `yaml:"header_bytes,omitempty"`
	// Table and Columns select the coordinates of SQLite sources.
	Table   string   `yaml:"table,omitempty"`
	Columns []string `yaml:"columns,omitempty"`
}

// Config is the in-memory representation of closestpos.yaml.
type Config struct {
	Log           LogConfig    `yaml:"log"`
	MemoryLimit   int64        `yaml:"memory_limit,omitempty"`
	MaxHandles    int          `yaml:"max_handles,omitempty"`
	TypeName      string       `yaml:"type_name,omitempty"`
	ArrayTypeName string       `yaml:"array_type_name,omitempty"`
	Points        PointsConfig `yaml:"points"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "warn", Format: "text"},
		Points: PointsConfig{
			BlockSize: 3,
			Table:     "points",
			Columns:   []string{"x", "y", "z"},
		},
	}
}

// Load reads path over the defaults. An empty path means FileName in the
// working directory; a missing file yields the defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = FileName
	}

	cfg := Default()

	data, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("invalid YAML in %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save marshals cfg and writes it to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.MemoryLimit < 0 {
		return fmt.Errorf("memory_limit must be 0 or greater (given %d)", c.MemoryLimit)
	}
	if c.MaxHandles < 0 {
		return fmt.Errorf("max_handles must be 0 or greater (given %d)", c.MaxHandles)
	}
	if c.Points.BlockSize < 3 {
		return fmt.Errorf("points.block_size must be 3 or greater (given %d)", c.Points.BlockSize)
	}
	if c.Points.Offset < 0 || c.Points.Offset%4 != 0 || c.Points.Offset+12 > c.Points.BlockSize*4 {
		return fmt.Errorf("points.offset %d does not address three cells of a %d cell record", c.Points.Offset, c.Points.BlockSize)
	}
	if c.Points.HeaderBytes < 0 {
		return fmt.Errorf("points.header_bytes must be 0 or greater (given %d)", c.Points.HeaderBytes)
	}
	if n := len(c.Points.Columns); n != 0 && n != 3 {
		return fmt.Errorf("points.columns needs three names (given %d)", n)
	}
	return nil
}

// SlogLevel parses Log.Level. An empty level is warn.
func (l LogConfig) SlogLevel() (slog.Level, error) {
	if l.Level == "" {
		return slog.LevelWarn, nil
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// JSON reports whether the JSON log format is selected.
func (l LogConfig) JSON() bool {
	return strings.EqualFold(l.Format, "json")
}
