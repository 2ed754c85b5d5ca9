// Package config loads the optional YAML configuration of the audience CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	audience "github.com/reoring/audience"
)

// EnvConfigPath names the environment variable consulted when no --config
// flag is given.
const EnvConfigPath = "AUDIENCE_CONFIG"

// Config holds CLI settings. Zero values are replaced by applyDefaults.
type Config struct {
	// MaxDepth caps selector nesting; negative disables the limit.
	MaxDepth int `yaml:"max_depth"`
	// DuplicateKeys is one of "error", "warn" or "ignore".
	DuplicateKeys string `yaml:"duplicate_keys"`
	// MaxBytes caps input size per file; 0 means unlimited.
	MaxBytes int64 `yaml:"max_bytes"`
	// Lang selects the message language ("en", "ja").
	Lang string `yaml:"lang"`
	// Driver selects the JSON driver: "go-json" or "encoding/json".
	Driver   string `yaml:"driver"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Path resolves the config file location: the explicit flag value wins, then
// AUDIENCE_CONFIG. An empty result means "no config file".
func Path(flag string) string {
	if flag != "" {
		return flag
	}
	return os.Getenv(EnvConfigPath)
}

// Load reads a YAML config file and applies defaults. Unknown fields are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes and applies defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.MaxDepth == 0 {
		cfg.MaxDepth = audience.DefaultMaxDepth
	}
	if cfg.DuplicateKeys == "" {
		cfg.DuplicateKeys = "error"
	}
	if cfg.Lang == "" {
		cfg.Lang = "en"
	}
	if cfg.Driver == "" {
		cfg.Driver = "go-json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// Validate checks enumerated fields.
func (c *Config) Validate() error {
	if _, err := parseSeverity(c.DuplicateKeys); err != nil {
		return err
	}
	switch c.Driver {
	case "go-json", "encoding/json":
	default:
		return fmt.Errorf("config: unknown driver %q", c.Driver)
	}
	if c.MaxBytes < 0 {
		return fmt.Errorf("config: max_bytes must not be negative")
	}
	return nil
}

// ParseOpt converts the config into parser options.
func (c *Config) ParseOpt() audience.ParseOpt {
	sev, _ := parseSeverity(c.DuplicateKeys)
	return audience.ParseOpt{
		Strictness: audience.Strictness{OnDuplicateKey: sev},
		MaxDepth:   c.MaxDepth,
		MaxBytes:   c.MaxBytes,
	}
}

func parseSeverity(s string) (audience.Severity, error) {
	switch strings.ToLower(s) {
	case "error":
		return audience.Error, nil
	case "warn":
		return audience.Warn, nil
	case "ignore":
		return audience.Ignore, nil
	}
	return audience.Error, fmt.Errorf("config: unknown duplicate_keys policy %q", s)
}
