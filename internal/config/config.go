// Package config handles vvalues.toml CLI defaults.
//
// Every field is optional; command-line flags override whatever the file
// sets. Relative db and scenarios paths in a file are relative to the
// file's directory.
//
//	db = "traces.db"
//	format = "json"
//	verbose = false
//	scenarios = "testdata/scenarios"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the config file looked up by FindAndLoad.
const FileName = "vvalues.toml"

// Config holds CLI defaults.
type Config struct {
	// DB is the trace database used by run, trace and export.
	DB string `toml:"db"`

	// Format is the default output format ("text" or "json").
	Format string `toml:"format"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`

	// Scenarios is the directory test runs when given no argument.
	Scenarios string `toml:"scenarios"`

	// Path is the file the config was loaded from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Format:    "text",
		Scenarios: "testdata/scenarios",
	}
}

// Load parses a config file. Unset fields keep their defaults, and unknown
// keys are rejected so typos don't silently fall back.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	cfg := Default()
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	cfg.Path = path
	dir := filepath.Dir(path)
	if cfg.DB != ":memory:" {
		cfg.DB = resolve(dir, cfg.DB)
	}
	cfg.Scenarios = resolve(dir, cfg.Scenarios)
	return cfg, nil
}

// resolve makes a relative path relative to dir. Empty stays empty.
func resolve(dir, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(dir, p)
}

// FindAndLoad walks up from startDir looking for vvalues.toml. Returns the
// defaults if none is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), nil
		}
		dir = parent
	}
}

// Validate checks field values.
func (c *Config) Validate() error {
	switch c.Format {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("format %q: must be text or json", c.Format)
}
