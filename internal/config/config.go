// Package config loads tck settings from .tck.yaml and TCK_* environment
// variables.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/eykd/tck/internal/domain"
	"github.com/eykd/tck/internal/manifest"
)

// FileName is the project-level configuration file.
const FileName = ".tck.yaml"

// EnvPrefix prefixes environment variable overrides, e.g. TCK_SOURCE_EXT.
const EnvPrefix = "TCK"

// ErrInvalidConfig is returned when a loaded value is out of range.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the settings shared by all commands.
type Config struct {
	SourceExt string `mapstructure:"source_ext" yaml:"source_ext" json:"source_ext"`
	Manifest  string `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
	Workers   int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	FailFast  bool   `mapstructure:"fail_fast" yaml:"fail_fast" json:"fail_fast"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		SourceExt: domain.DefaultSourceExt,
		Manifest:  "Cargo.toml",
		Workers:   manifest.DefaultWorkers,
	}
}

// LoadOptions controls where Load looks for a configuration file.
// ConfigFile, when set, must exist; otherwise Dir/.tck.yaml is used if present.
type LoadOptions struct {
	Dir        string
	ConfigFile string
}

// Load merges defaults, the configuration file and the environment. It
// returns the path of the file that was read, or "" if none was.
func Load(ctx context.Context, opts LoadOptions) (Config, string, error) {
	if err := ctx.Err(); err != nil {
		return Config{}, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := viper.New()
	defaults := Default()
	v.SetDefault("source_ext", defaults.SourceExt)
	v.SetDefault("manifest", defaults.Manifest)
	v.SetDefault("workers", defaults.Workers)
	v.SetDefault("fail_fast", defaults.FailFast)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetConfigType("yaml")

	resolved := opts.ConfigFile
	if resolved == "" {
		candidate := filepath.Join(opts.Dir, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			resolved = candidate
		}
	}
	if resolved != "" {
		v.SetConfigFile(resolved)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, "", fmt.Errorf("reading config %s: %w", resolved, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, "", fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, "", err
	}
	return cfg, resolved, nil
}

// Validate checks that every value is usable.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Manifest == "" {
		return fmt.Errorf("%w: manifest must not be empty", ErrInvalidConfig)
	}
	return nil
}

// Marshal renders the configuration as YAML.
func Marshal(c Config) ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// WriteDefault creates dir/.tck.yaml with the default configuration. It
// reports false without touching the file when one already exists.
func WriteDefault(dir string) (bool, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	data, err := Marshal(Default())
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing %s: %w", path, err)
	}
	return true, nil
}
