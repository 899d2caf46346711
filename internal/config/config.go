package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default result limits, used when the config file and environment leave
// them unset or set them to a non-positive value
const (
	DefaultMaxResults    = 50
	DefaultSuggestLimit  = 5
	DefaultTrendingLimit = 10
)

// Config holds the application configuration
type Config struct {
	Data      DataConfig   `mapstructure:"data"`
	Search    SearchConfig `mapstructure:"search"`
	MutedTags []string     `mapstructure:"muted_tags"`
}

// DataConfig holds content library settings
type DataConfig struct {
	Dir string `mapstructure:"dir"`
}

// SearchConfig holds result limit settings
type SearchConfig struct {
	MaxResults    int `mapstructure:"max_results"`
	SuggestLimit  int `mapstructure:"suggest_limit"`
	TrendingLimit int `mapstructure:"trending_limit"`
}

// Load loads configuration from file and environment variables
// A missing config file is not an error; every setting has a default
func Load() (*Config, error) {
	// Set config file paths
	configDir := filepath.Join(os.Getenv("HOME"), ".config", "crfind")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".") // Also check current directory

	// Set environment variable prefix
	viper.SetEnvPrefix("CRFIND")
	viper.AutomaticEnv()

	// Set defaults
	dataDir := filepath.Join(os.Getenv("HOME"), ".local", "share", "crfind")
	viper.SetDefault("data.dir", dataDir)
	viper.SetDefault("search.max_results", DefaultMaxResults)
	viper.SetDefault("search.suggest_limit", DefaultSuggestLimit)
	viper.SetDefault("search.trending_limit", DefaultTrendingLimit)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	// Expand tilde in data dir path
	if cfg.Data.Dir != "" {
		cfg.Data.Dir = expandPath(cfg.Data.Dir)
	}

	if cfg.Search.MaxResults <= 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
	if cfg.Search.SuggestLimit <= 0 {
		cfg.Search.SuggestLimit = DefaultSuggestLimit
	}
	if cfg.Search.TrendingLimit <= 0 {
		cfg.Search.TrendingLimit = DefaultTrendingLimit
	}

	return &cfg, nil
}

// expandPath expands ~ to home directory in paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home := os.Getenv("HOME")
		if len(path) == 1 {
			return home
		}
		return filepath.Join(home, path[1:])
	}
	return path
}

// EnsureConfigDir ensures the config directory exists
func EnsureConfigDir() error {
	configDir := filepath.Join(os.Getenv("HOME"), ".config", "crfind")
	return os.MkdirAll(configDir, 0755)
}

// ConfigPath returns the path of the active config file
func ConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "crfind", "config.yaml")
}

// ExampleConfigPath returns the path where the example config should be created
func ExampleConfigPath() string {
	return filepath.Join(os.Getenv("HOME"), ".config", "crfind", "config.yaml.example")
}

// IsMuted checks if a tag matches any muted pattern
// Patterns use filepath.Match syntax, e.g. "spoiler*"
func (c *Config) IsMuted(tag string) bool {
	for _, pattern := range c.MutedTags {
		matched, err := filepath.Match(pattern, tag)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// HasMutedTag reports whether any of the given tags matches a muted pattern
func (c *Config) HasMutedTag(tags []string) bool {
	for _, tag := range tags {
		if c.IsMuted(tag) {
			return true
		}
	}
	return false
}

// AddMutedTag adds a muted tag pattern if it doesn't already exist
func (c *Config) AddMutedTag(pattern string) error {
	for _, existing := range c.MutedTags {
		if existing == pattern {
			return nil // Already muted
		}
	}

	c.MutedTags = append(c.MutedTags, pattern)
	return c.Save()
}

// RemoveMutedTag removes a muted tag pattern
func (c *Config) RemoveMutedTag(pattern string) error {
	next := make([]string, 0, len(c.MutedTags))
	for _, p := range c.MutedTags {
		if p != pattern {
			next = append(next, p)
		}
	}
	c.MutedTags = next
	return c.Save()
}

// Save saves the current configuration to file
func (c *Config) Save() error {
	if err := EnsureConfigDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set all config values in viper
	viper.Set("data.dir", c.Data.Dir)
	viper.Set("search.max_results", c.Search.MaxResults)
	viper.Set("search.suggest_limit", c.Search.SuggestLimit)
	viper.Set("search.trending_limit", c.Search.TrendingLimit)
	viper.Set("muted_tags", c.MutedTags)

	if err := viper.WriteConfigAs(ConfigPath()); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// CreateExampleConfig creates an example configuration file
func CreateExampleConfig() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	exampleConfig := `# crfind Configuration File
# Place this file at ~/.config/crfind/config.yaml

data:
  # Content library directory (optional, defaults to ~/.local/share/crfind)
  dir: "~/.local/share/crfind"

search:
  # Maximum number of results printed by direct search (optional, defaults to 50)
  max_results: 50

  # Number of autocomplete suggestions (optional, defaults to 5)
  suggest_limit: 5

  # Number of trending tags (optional, defaults to 10)
  trending_limit: 10

# Muted tag patterns (supports wildcards)
# Content carrying a muted tag is hidden in the interactive finder
# Use Ctrl+X in TUI to mute the selected entry's first tag
# Use Ctrl+H to toggle showing muted entries
muted_tags:
  # - "spoiler*"
  # - "memes"

# Environment variables can also be used:
# CRFIND_DATA_DIR=/path/to/library
`

	examplePath := ExampleConfigPath()
	return os.WriteFile(examplePath, []byte(exampleConfig), 0644)
}
