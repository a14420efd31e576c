// Package config loads avrocol.yml, the optional configuration file for
// the cmd/avrocol CLI demo. The library packages (schema, builder,
// rowappend, registry) take every knob as an explicit function argument
// and never read this file themselves; it exists only to keep the CLI's
// own wiring out of main.go, in the teacher's internal/config shape
// (Load/WriteDefaultConfig/GetDefaultConfig over gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the avrocol.yml document shape.
type Config struct {
	Registry RegistryConfig `yaml:"registry"`
	Builder  BuilderConfig  `yaml:"builder"`
}

// RegistryConfig configures the schema registry HTTP client.
type RegistryConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML lets RegistryConfig.Timeout be written as a duration
// string ("10s") in avrocol.yml instead of raw nanoseconds.
func (r *RegistryConfig) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	r.BaseURL = raw.BaseURL
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return fmt.Errorf("registry.timeout: %w", err)
		}
		r.Timeout = d
	}
	return nil
}

// MarshalYAML renders Timeout back as a duration string.
func (r RegistryConfig) MarshalYAML() (any, error) {
	return struct {
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	}{BaseURL: r.BaseURL, Timeout: r.Timeout.String()}, nil
}

// BuilderConfig configures BuilderFactory's default capacity hint.
type BuilderConfig struct {
	CapacityHint int `yaml:"capacity_hint"`
}

// DefaultConfigPath is the conventional file name cmd/avrocol looks for
// in the current directory when no --config flag is given.
const DefaultConfigPath = "avrocol.yml"

// Default returns the configuration used when no avrocol.yml is present.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			BaseURL: "http://localhost:8081",
			Timeout: 10 * time.Second,
		},
		Builder: BuilderConfig{
			CapacityHint: 1024,
		},
	}
}

// Load reads and parses path, falling back to Default() field-by-field
// for anything the file leaves zero. A missing file is not an error: it
// yields Default() unmodified, matching a CLI demo's "works with zero
// config" expectation.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if parsed.Registry.BaseURL != "" {
		cfg.Registry.BaseURL = parsed.Registry.BaseURL
	}
	if parsed.Registry.Timeout != 0 {
		cfg.Registry.Timeout = parsed.Registry.Timeout
	}
	if parsed.Builder.CapacityHint != 0 {
		cfg.Builder.CapacityHint = parsed.Builder.CapacityHint
	}
	return cfg, nil
}

// WriteDefault writes Default() to path, creating parent directories as
// needed, in the teacher's WriteDefaultConfig shape.
func WriteDefault(path string) error {
	if path == "" {
		path = DefaultConfigPath
	}
	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshal default config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return nil
}
