// Package config holds ctmerge configuration, loaded from an optional
// ctmerge.yaml file with sensible defaults for everything.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all ctmerge configuration.
type Config struct {
	// Output controls where and how the merged table is written
	Output OutputConfig `yaml:"output"`

	// Verify configures the structural verification pass
	Verify VerifyConfig `yaml:"verify"`

	// Watch configures watch mode
	Watch WatchConfig `yaml:"watch"`
}

// OutputConfig controls merged-table output.
type OutputConfig struct {
	// Dir is the output directory. Empty means a "Merged" directory next to
	// the input tables.
	Dir string `yaml:"dir"`

	// Pretty indents the serialized XML.
	Pretty bool `yaml:"pretty"`
}

// VerifyConfig configures structural verification.
type VerifyConfig struct {
	// Aliases collapse process-name variants to one canonical name before
	// comparison (e.g. the DX9 and DX10 builds of the same game).
	Aliases []AliasConfig `yaml:"aliases"`
}

// AliasConfig is one process-name rewrite rule.
type AliasConfig struct {
	Pattern   string `yaml:"pattern"`   // matched case-insensitively against the process name
	Canonical string `yaml:"canonical"` // replacement name
}

// WatchConfig configures watch mode.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Pretty: true},
		Watch:  WatchConfig{DebounceMS: 500},
	}
}

// Load reads configuration from path. An empty path returns the defaults; a
// named file that does not exist is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Watch.DebounceMS <= 0 {
		cfg.Watch.DebounceMS = Default().Watch.DebounceMS
	}
	return cfg, nil
}
