// Package config reads the optional TOML settings file that layers under
// the CLI flags: anything set on the command line always wins, so
// ApplyDefaults only ever fills in fields the flags left at their zero
// value.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the full set of settings a TOML file may carry. Every field
// has a CLI-flag equivalent; see cmd/androcfg.
type Config struct {
	OutDir   string `toml:"out_dir"`
	Format   string `toml:"format"`
	LogLevel string `toml:"log_level"`
}

// Load decodes the TOML file at path. An empty path is not an error: it
// returns a zero-value Config, since the settings file is optional. A
// non-empty path that cannot be read or decoded is an error.
func Load(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	meta, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	_ = meta
	return c, nil
}

// ApplyDefaults fills any field of c that is still its zero value with the
// corresponding field from fallback, returning the merged result. Flags
// parsed from the command line should always be passed as c so they take
// precedence over the settings file.
func ApplyDefaults(c, fallback Config) Config {
	if c.OutDir == "" {
		c.OutDir = fallback.OutDir
	}
	if c.Format == "" {
		c.Format = fallback.Format
	}
	if c.LogLevel == "" {
		c.LogLevel = fallback.LogLevel
	}
	return c
}
