// Package config provides configuration loading and management for Stratagem.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/stratagem-io/stratagem/model"
)

// Config represents the complete Stratagem configuration
type Config struct {
	Model  ModelConfig  `yaml:"model"`
	Server ServerConfig `yaml:"server"`
	Cache  CacheConfig  `yaml:"cache"`
	Intel  IntelConfig  `yaml:"intel"`
	Briefs BriefsConfig `yaml:"briefs"`
}

// ModelConfig configures the completion model allow-list
type ModelConfig struct {
	// Default is the model used when a request names none
	Default string `yaml:"default"`
	// Endpoints maps model names to their endpoints (empty = built-in list)
	Endpoints map[string]*model.Endpoint `yaml:"endpoints"`
	// Timeout is the maximum time to wait for a completion
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures the HTTP API server
type ServerConfig struct {
	// Addr is the listen address (host:port)
	Addr string `yaml:"addr"`
}

// CacheConfig configures the completion cache
type CacheConfig struct {
	// Enabled toggles the in-memory completion cache
	Enabled bool `yaml:"enabled"`
	// TTL is how long cached completions stay valid
	TTL time.Duration `yaml:"ttl"`
}

// IntelConfig configures competitor page retrieval
type IntelConfig struct {
	// Timeout is the per-fetch deadline
	Timeout time.Duration `yaml:"timeout"`
	// UserAgent is sent on outbound requests
	UserAgent string `yaml:"user_agent"`
	// MaxContentSize caps fetched page bodies in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
}

// BriefsConfig configures the supporting-documents library
type BriefsConfig struct {
	// Dir is the directory scanned for briefs (empty = disabled)
	Dir string `yaml:"dir"`
	// Include is the list of glob patterns for brief files
	Include []string `yaml:"include"`
	// DebounceDelay batches rapid filesystem events before a rescan
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Default:   "gpt-4o-mini",
			Endpoints: nil, // Built-in allow-list
			Timeout:   2 * time.Minute,
		},
		Server: ServerConfig{
			Addr: "localhost:8787",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     time.Hour,
		},
		Intel: IntelConfig{
			Timeout:        30 * time.Second,
			UserAgent:      "Stratagem/1.0",
			MaxContentSize: 10 * 1024 * 1024,
		},
		Briefs: BriefsConfig{
			Dir:           "",
			Include:       []string{"**/*.md", "**/*.txt"},
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Model.Default == "" {
		return fmt.Errorf("model.default is required")
	}
	if len(c.Model.Endpoints) > 0 {
		if _, ok := c.Model.Endpoints[c.Model.Default]; !ok {
			return fmt.Errorf("model.default %q is not among model.endpoints", c.Model.Default)
		}
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Cache.Enabled && c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive when cache is enabled")
	}
	return nil
}

// Registry builds the model allow-list from the configured endpoints,
// falling back to the built-in list when none are configured.
func (c *Config) Registry() (*model.Registry, error) {
	if len(c.Model.Endpoints) == 0 {
		return model.NewDefaultRegistry(), nil
	}
	return model.NewRegistry(c.Model.Endpoints, c.Model.Default)
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Model.Default != "" {
		c.Model.Default = other.Model.Default
	}
	if len(other.Model.Endpoints) > 0 {
		c.Model.Endpoints = other.Model.Endpoints
	}
	if other.Model.Timeout != 0 {
		c.Model.Timeout = other.Model.Timeout
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}

	if other.Cache.TTL != 0 {
		c.Cache.TTL = other.Cache.TTL
	}
	if other.Cache.Enabled != c.Cache.Enabled {
		c.Cache.Enabled = other.Cache.Enabled
	}

	if other.Intel.Timeout != 0 {
		c.Intel.Timeout = other.Intel.Timeout
	}
	if other.Intel.UserAgent != "" {
		c.Intel.UserAgent = other.Intel.UserAgent
	}
	if other.Intel.MaxContentSize != 0 {
		c.Intel.MaxContentSize = other.Intel.MaxContentSize
	}

	if other.Briefs.Dir != "" {
		c.Briefs.Dir = other.Briefs.Dir
	}
	if len(other.Briefs.Include) > 0 {
		c.Briefs.Include = other.Briefs.Include
	}
	if other.Briefs.DebounceDelay != 0 {
		c.Briefs.DebounceDelay = other.Briefs.DebounceDelay
	}
}
