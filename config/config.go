// Package config provides environment-variable-first configuration loading
// with optional YAML file fallback, plus the category ruleset used to
// bucket incoming mail.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration.
type Config struct {
	Server      ServerConfig  `yaml:"server"`
	Credentials CredsConfig   `yaml:"credentials"`
	Webhook     WebhookConfig `yaml:"webhook"`
	Logging     LoggingConfig `yaml:"logging"`

	// CategoriesPath points at the category ruleset file.
	CategoriesPath string `yaml:"categories_path"`
}

// ServerConfig holds REST server configuration.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// CredsConfig holds paths for the OAuth client secret and token files.
type CredsConfig struct {
	Dir string `yaml:"dir"`
}

// WebhookConfig holds the home-automation hub webhook target.
type WebhookConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load loads configuration from environment variables with sensible defaults.
// Environment variables always take precedence.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnvVars()
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file as the base layer,
// then overrides with environment variables.
func LoadFromFile(path string) (*Config, error) {
	cfg := &Config{}
	cfg.applyDefaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvVars()
	return cfg, nil
}

// Addr returns the host:port the REST server listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) applyDefaults() {
	c.Server.Host = "0.0.0.0"
	c.Server.Port = 8000
	c.Credentials.Dir = "credentials"
	c.CategoriesPath = "config/categories.yaml"
	c.Logging.Level = "info"
}

func (c *Config) applyEnvVars() {
	if v := os.Getenv("MAILPILOT_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("MAILPILOT_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := os.Getenv("MAILPILOT_CREDENTIALS_DIR"); v != "" {
		c.Credentials.Dir = v
	}
	if v := os.Getenv("MAILPILOT_CATEGORIES"); v != "" {
		c.CategoriesPath = v
	}
	if v := os.Getenv("MAILPILOT_WEBHOOK_URL"); v != "" {
		c.Webhook.URL = v
	}
	if v := os.Getenv("MAILPILOT_WEBHOOK_TOKEN"); v != "" {
		c.Webhook.Token = v
	}
	if v := os.Getenv("MAILPILOT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}
