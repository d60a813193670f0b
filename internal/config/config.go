// ABOUTME: Configuration loading and parsing for berth-gateway
// ABOUTME: Supports YAML files with environment variable expansion and env fallbacks for secrets

package config

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Defaults applied when neither the config file nor the environment
// provides a value. A production deployment must override the secret key.
const (
	DefaultSecretKey    = "changeme"
	DefaultRootPassword = "root"
)

// Config represents the complete berth-gateway configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Docker   DockerConfig   `yaml:"docker"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server address configuration
type ServerConfig struct {
	HTTPAddr string `yaml:"http_addr"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// AuthConfig holds token signing and bootstrap configuration.
// SecretKey falls back to the SECRET_KEY environment variable,
// RootPassword to ROOT_PASSWORD.
type AuthConfig struct {
	SecretKey    string `yaml:"secret_key"`
	RootPassword string `yaml:"root_password"`
}

// DockerConfig holds container runtime configuration
type DockerConfig struct {
	// Host overrides the daemon address. Empty means the SDK default
	// (DOCKER_HOST or the platform socket).
	Host string `yaml:"host"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed Config.
// Environment variables in the format ${VAR_NAME} are expanded.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyEnvDefaults fills auth secrets from the environment, then from the
// built-in defaults. File values always win over the environment.
func (c *Config) applyEnvDefaults() {
	if c.Auth.SecretKey == "" {
		c.Auth.SecretKey = os.Getenv("SECRET_KEY")
	}
	if c.Auth.SecretKey == "" {
		c.Auth.SecretKey = DefaultSecretKey
	}

	if c.Auth.RootPassword == "" {
		c.Auth.RootPassword = os.Getenv("ROOT_PASSWORD")
	}
	if c.Auth.RootPassword == "" {
		c.Auth.RootPassword = DefaultRootPassword
	}
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return fmt.Errorf("server.http_addr is required")
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}

	return nil
}
