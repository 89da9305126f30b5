// Package config loads and persists the Qber client configuration.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete Qber client configuration (v2 schema)
type Config struct {
	Version  int    `json:"version" mapstructure:"version"`
	Endpoint string `json:"endpoint" mapstructure:"endpoint"`

	Defaults DefaultsConfig `json:"defaults" mapstructure:"defaults"`
	Remote   RemoteConfig   `json:"remote" mapstructure:"remote"`
	Cache    CacheConfig    `json:"cache" mapstructure:"cache"`
	Logging  LoggingConfig  `json:"logging" mapstructure:"logging"`
}

// DefaultsConfig contains default scope for commands that omit flags
type DefaultsConfig struct {
	ProjectID       string `json:"projectId" mapstructure:"projectId"`
	QuestionnaireID string `json:"questionnaireId" mapstructure:"questionnaireId"`
}

// RemoteConfig contains API client tuning
type RemoteConfig struct {
	TimeoutMs  int `json:"timeoutMs" mapstructure:"timeoutMs"`
	MaxRetries int `json:"maxRetries" mapstructure:"maxRetries"`
}

// CacheConfig contains offline cache configuration
type CacheConfig struct {
	TTLSeconds int `json:"ttlSeconds" mapstructure:"ttlSeconds"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:  2,
		Endpoint: "https://api.qber.app/graphql",
		Remote: RemoteConfig{
			TimeoutMs:  15000,
			MaxRetries: 3,
		},
		Cache: CacheConfig{
			TTLSeconds: 300,
		},
		Logging: LoggingConfig{
			Format: "text",
			Level:  "info",
		},
	}
}

// LoadConfig loads configuration from <root>/.qber/config.json
func LoadConfig(root string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("version", 2)
	v.SetDefault("endpoint", "https://api.qber.app/graphql")
	v.SetDefault("remote.timeoutMs", 15000)
	v.SetDefault("remote.maxRetries", 3)
	v.SetDefault("cache.ttlSeconds", 300)
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.level", "info")

	// Configure viper
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(root, ".qber"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// If config doesn't exist, return default config
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	// Unmarshal into config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to <root>/.qber/config.json
func (c *Config) Save(root string) error {
	dir := filepath.Join(root, ".qber")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != 2 {
		return &ConfigError{Field: "version", Message: "unsupported config version"}
	}
	if c.Endpoint == "" {
		return &ConfigError{Field: "endpoint", Message: "endpoint must not be empty"}
	}
	if c.Remote.TimeoutMs <= 0 {
		return &ConfigError{Field: "remote.timeoutMs", Message: "timeout must be positive"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
