package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP server settings
	Server ServerConfig `yaml:"server"`

	// Database settings
	Database DatabaseConfig `yaml:"database"`

	// Trial session pricing
	Trials TrialsConfig `yaml:"trials"`
}

type ServerConfig struct {
	Addr    string `yaml:"addr"`    // Listen address for the API server
	Metrics bool   `yaml:"metrics"` // Expose Prometheus /metrics
}

type DatabaseConfig struct {
	Path string `yaml:"path"` // Path to SQLite database
}

type TrialsConfig struct {
	FreeSessions int    `yaml:"free_sessions"` // Free trials per project
	ExtraCost    string `yaml:"extra_cost"`    // Price per trial past the quota
}

// DefaultConfigPath returns ~/.config/freelancedesk/config.yaml
func DefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home dir unavailable
		return filepath.Join(".", ".config", "freelancedesk", "config.yaml")
	}
	return filepath.Join(homeDir, ".config", "freelancedesk", "config.yaml")
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}

	return &Config{
		Server: ServerConfig{
			Addr:    "127.0.0.1:8080",
			Metrics: true,
		},
		Database: DatabaseConfig{
			Path: filepath.Join(homeDir, ".config", "freelancedesk", "freelancedesk.db"),
		},
		Trials: TrialsConfig{
			FreeSessions: 3,
			ExtraCost:    "10",
		},
	}
}

// Load loads config from the given path, or returns defaults if file doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDefault loads from the default config path
func LoadDefault() (*Config, error) {
	return Load(DefaultConfigPath())
}

// Save writes the config to the given path
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureDirectories creates the database directory
func (c *Config) EnsureDirectories() error {
	dbDir := filepath.Dir(c.Database.Path)
	return os.MkdirAll(dbDir, 0755)
}
