// Package config loads the tagbridge CLI settings from TOML files.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/simonhull/tagbridge/internal/types"
)

// Config holds the CLI defaults. Command-line flags override every field.
type Config struct {
	RatingMax      int      `koanf:"rating_max"`      // normalized rating scale, 0 for raw values
	ID3v2Version   int      `koanf:"id3v2_version"`   // 3 or 4 (default: 4)
	FormatPriority []string `koanf:"format_priority"` // e.g. ["id3v1", "id3v2"]
	Strict         bool     `koanf:"strict"`          // treat read warnings as errors
}

// Load reads ~/.config/tagbridge/config.toml, then ./tagbridge.toml. Later
// files override earlier ones; missing files are skipped.
func Load() (*Config, error) {
	return LoadFiles(getConfigPaths()...)
}

// LoadFiles reads the given TOML files in order, last wins. Missing files are
// skipped.
func LoadFiles(paths ...string) (*Config, error) {
	return load(paths, false)
}

// LoadFile reads a single TOML file that must exist.
func LoadFile(path string) (*Config, error) {
	return load([]string{path}, true)
}

func load(paths []string, required bool) (*Config, error) {
	k := koanf.New(".")
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("config file: %w", err)
			}
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the values that the library would otherwise reject late.
func (c *Config) Validate() error {
	if c.RatingMax < 0 {
		return &types.ConfigurationError{Option: "rating_max", Reason: "must not be negative"}
	}
	switch c.ID3v2Version {
	case 0, 3, 4:
	default:
		return &types.ConfigurationError{Option: "id3v2_version", Reason: fmt.Sprintf("unsupported version %d", c.ID3v2Version)}
	}
	_, err := c.Formats()
	return err
}

// Formats parses FormatPriority.
func (c *Config) Formats() ([]types.MetadataFormat, error) {
	out := make([]types.MetadataFormat, 0, len(c.FormatPriority))
	for _, name := range c.FormatPriority {
		f, ok := types.ParseMetadataFormat(name)
		if !ok {
			return nil, &types.ConfigurationError{Option: "format_priority", Reason: fmt.Sprintf("unknown format %q", name)}
		}
		out = append(out, f)
	}
	return out, nil
}

func getConfigPaths() []string {
	paths := []string{}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "tagbridge", "config.toml"))
	}

	// ./tagbridge.toml, highest priority
	paths = append(paths, "tagbridge.toml")

	return paths
}
