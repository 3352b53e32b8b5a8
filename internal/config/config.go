// Package config provides configuration for the tsddl service.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration of the DDL front end.
type Config struct {
	// HTTP configuration
	HTTP HTTPConfig `json:"http" yaml:"http"`

	// Log configuration
	Log LogConfig `json:"log" yaml:"log"`

	// Parser configuration
	Parser ParserConfig `json:"parser" yaml:"parser"`

	// Auth configuration
	Auth AuthConfig `json:"auth" yaml:"auth"`
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	// Addr is the listen address of the DDL endpoint
	Addr string `json:"addr" yaml:"addr"`

	// ReadTimeout is the HTTP read timeout
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout"`

	// WriteTimeout is the HTTP write timeout
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// IdleTimeout is the HTTP idle timeout
	IdleTimeout time.Duration `json:"idle_timeout" yaml:"idle_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	// Level is a logrus level name: trace, debug, info, warn, error
	Level string `json:"level" yaml:"level"`
}

// ParserConfig holds statement parsing configuration.
type ParserConfig struct {
	// Dialect is the SQL dialect: generic or mysql
	Dialect string `json:"dialect" yaml:"dialect"`

	// MaxStatementBytes bounds the size of a request body accepted for parsing
	MaxStatementBytes int64 `json:"max_statement_bytes" yaml:"max_statement_bytes"`
}

// AuthConfig holds HTTP Basic authorization configuration.
type AuthConfig struct {
	// Enabled turns on authorization; when off every request is anonymous
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Users maps usernames to plain text or bcrypt hashed passwords
	Users map[string]string `json:"users" yaml:"users"`
}

// DefaultConfig returns the default configuration for local development.
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:         ":4000",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
		Parser: ParserConfig{
			Dialect:           "generic",
			MaxStatementBytes: 1 << 20,
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return fmt.Errorf("http.addr is required")
	}

	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	switch strings.ToLower(c.Parser.Dialect) {
	case "generic", "mysql":
		// Valid dialects
	default:
		return fmt.Errorf("invalid parser dialect: %s (must be generic or mysql)", c.Parser.Dialect)
	}

	if c.Parser.MaxStatementBytes <= 0 {
		return fmt.Errorf("parser.max_statement_bytes must be positive, got %d", c.Parser.MaxStatementBytes)
	}

	if c.Auth.Enabled && len(c.Auth.Users) == 0 {
		return fmt.Errorf("auth.users must not be empty when auth is enabled")
	}

	return nil
}

// LoadFromFile loads configuration from a YAML or JSON file on top of the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse YAML config")
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse JSON config")
		}
	default:
		return nil, errors.Errorf("unsupported config file format: %s", ext)
	}

	return cfg, nil
}

// LoadFromEnv loads configuration from environment variables.
// Environment variables use the TSDDL_ prefix.
func LoadFromEnv(cfg *Config) {
	// HTTP configuration
	if v := os.Getenv("TSDDL_HTTP_ADDR"); v != "" {
		cfg.HTTP.Addr = v
	}
	if v := os.Getenv("TSDDL_HTTP_READ_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.ReadTimeout = d
		}
	}
	if v := os.Getenv("TSDDL_HTTP_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.WriteTimeout = d
		}
	}
	if v := os.Getenv("TSDDL_HTTP_IDLE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.IdleTimeout = d
		}
	}

	if v := os.Getenv("TSDDL_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	// Parser configuration
	if v := os.Getenv("TSDDL_PARSER_DIALECT"); v != "" {
		cfg.Parser.Dialect = v
	}
	if v := os.Getenv("TSDDL_PARSER_MAX_STATEMENT_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Parser.MaxStatementBytes = n
		}
	}

	// Auth configuration, users as user1:pass1,user2:pass2
	if v := os.Getenv("TSDDL_AUTH_ENABLED"); v != "" {
		cfg.Auth.Enabled = v == "true" || v == "1"
	}
	if v := os.Getenv("TSDDL_AUTH_USERS"); v != "" {
		cfg.Auth.Users = make(map[string]string)
		for _, pair := range strings.Split(v, ",") {
			if user, pass, ok := strings.Cut(strings.TrimSpace(pair), ":"); ok && user != "" {
				cfg.Auth.Users[user] = pass
			}
		}
	}
}
