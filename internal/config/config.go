package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/thenoetrevino/kanrank/internal/database"
	"github.com/thenoetrevino/kanrank/internal/events"
	"github.com/thenoetrevino/kanrank/internal/rank"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database  database.Config `yaml:"database"`
	Rank      rank.Config     `yaml:"rank"`
	Placement Placement       `yaml:"placement"`
	Events    Events          `yaml:"events"`
	Log       Log             `yaml:"log"`
}

// Placement tunes conflict retries
type Placement struct {
	MaxRetries       int `yaml:"max_retries"`
	RetryBaseDelayMs int `yaml:"retry_base_delay_ms"`
}

// RetryBaseDelay returns the configured first backoff as a duration
func (p Placement) RetryBaseDelay() time.Duration {
	return time.Duration(p.RetryBaseDelayMs) * time.Millisecond
}

// Events configures change notifications. An empty RedisURL disables them.
type Events struct {
	RedisURL string `yaml:"redis_url"`
	Channel  string `yaml:"channel"`
}

// Log configures the log file
type Log struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		Database: database.DefaultConfig(),
		Rank:     rank.DefaultConfig(),
		Placement: Placement{
			MaxRetries:       3,
			RetryBaseDelayMs: 10,
		},
		Events: Events{
			Channel: events.DefaultChannelPrefix,
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load loads config from the user's config directory.
// Returns default config if file doesn't exist. Environment variables
// override file values.
func Load() (*Config, error) {
	config := Default()

	configPath, err := getConfigPath()
	if err == nil {
		if err := loadFile(configPath, config); err != nil {
			return nil, err
		}
	}

	config.applyEnv()
	config.applyDefaults()
	return config, nil
}

// loadFile merges the YAML file at path into config; a missing file is not an error
func loadFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, config)
}

// Save saves the config to the user's config directory
func (c *Config) Save() error {
	configPath, err := getConfigPath()
	if err != nil {
		return err
	}

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0o644)
}

// getConfigPath returns the path to the config file
func getConfigPath() (string, error) {
	// Try XDG_CONFIG_HOME first
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "kanrank", "config.yaml"), nil
	}

	// Fall back to ~/.config
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "kanrank", "config.yaml"), nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KANRANK_DB_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("KANRANK_DATABASE_URL"); v != "" {
		c.Database.URL = v
	}
	if v := os.Getenv("KANRANK_REDIS_URL"); v != "" {
		c.Events.RedisURL = v
	}
	if v := os.Getenv("KANRANK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	c.Placement.MaxRetries = getEnvInt("KANRANK_MAX_RETRIES", c.Placement.MaxRetries)
}

// applyDefaults fills in missing configuration with defaults
func (c *Config) applyDefaults() {
	defaults := Default()

	if c.Database.Driver == "" {
		c.Database.Driver = defaults.Database.Driver
	}
	if c.Database.BusyTimeoutMs <= 0 {
		c.Database.BusyTimeoutMs = defaults.Database.BusyTimeoutMs
	}
	if c.Rank.Width == 0 {
		c.Rank.Width = defaults.Rank.Width
	}
	if c.Rank.Step == 0 {
		c.Rank.Step = defaults.Rank.Step
	}
	if c.Rank.Chunk == 0 {
		c.Rank.Chunk = defaults.Rank.Chunk
	}
	if c.Placement.MaxRetries <= 0 {
		c.Placement.MaxRetries = defaults.Placement.MaxRetries
	}
	if c.Placement.RetryBaseDelayMs < 0 {
		c.Placement.RetryBaseDelayMs = defaults.Placement.RetryBaseDelayMs
	}
	if c.Events.Channel == "" {
		c.Events.Channel = defaults.Events.Channel
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}
