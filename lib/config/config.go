// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for concierge services.
//
// Configuration is loaded from a single file specified by:
//   - CONCIERGE_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures deterministic,
// auditable configuration with no hidden overrides.
//
// The config file may contain environment-specific sections (development,
// staging, production) that override base values when the environment matches.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment represents the deployment environment.
type Environment string

const (
	// Development is for local development machines.
	Development Environment = "development"
	// Staging is for pre-production testing.
	Staging Environment = "staging"
	// Production is for production deployments.
	Production Environment = "production"
)

// Config is the master configuration for a concierge service process.
type Config struct {
	// Environment identifies the deployment type (development, staging, production).
	Environment Environment `yaml:"environment"`

	// Server configures the HTTP listener.
	Server ServerConfig `yaml:"server"`

	// Schema locates the parameter schema and usage instructions.
	Schema SchemaConfig `yaml:"schema"`

	// State configures conversation state handling.
	State StateConfig `yaml:"state"`

	// Log configures structured logging.
	Log LogConfig `yaml:"log"`

	// EnvironmentOverrides contains per-environment overrides.
	// These are applied after the base config is loaded.
	Development *ConfigOverrides `yaml:"development,omitempty"`
	Staging     *ConfigOverrides `yaml:"staging,omitempty"`
	Production  *ConfigOverrides `yaml:"production,omitempty"`
}

// ConfigOverrides contains fields that can be overridden per environment.
type ConfigOverrides struct {
	Server *ServerConfig `yaml:"server,omitempty"`
	Schema *SchemaConfig `yaml:"schema,omitempty"`
	State  *StateConfig  `yaml:"state,omitempty"`
	Log    *LogConfig    `yaml:"log,omitempty"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	// Address is the listen address, e.g. ":8080" or "127.0.0.1:9000".
	Address string `yaml:"address"`

	// ShutdownTimeout bounds graceful shutdown, as a duration string.
	// Default: 10s
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// SchemaConfig locates the parameter schema served to callers.
type SchemaConfig struct {
	// Definition is the path to a JSONC schema definition file.
	// Required: the service refuses to start without a schema.
	Definition string `yaml:"definition"`

	// Instructions is an optional path to a markdown file whose
	// contents are served as usage instructions with the schema.
	Instructions string `yaml:"instructions"`
}

// StateConfig configures conversation state handling.
type StateConfig struct {
	// Serialized selects opaque string state tokens rather than raw
	// JSON state documents. Header transport always serializes
	// regardless of this setting.
	// Default: true
	Serialized bool `yaml:"serialized"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`
}

// Default returns the default configuration.
// These defaults are used as a base before loading the config file.
// They exist primarily to ensure all fields have sensible zero-values,
// not as a fallback - the config file is required.
func Default() *Config {
	return &Config{
		Environment: Development,
		Server: ServerConfig{
			Address:         ":8080",
			ShutdownTimeout: "10s",
		},
		State: StateConfig{
			Serialized: true,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the CONCIERGE_CONFIG environment variable.
//
// This is the only way to load configuration without an explicit path.
// There are no fallbacks or defaults - if CONCIERGE_CONFIG is not set, this
// fails. This ensures deterministic, auditable configuration with no hidden
// overrides.
func Load() (*Config, error) {
	configPath := os.Getenv("CONCIERGE_CONFIG")
	if configPath == "" {
		return nil, fmt.Errorf("CONCIERGE_CONFIG environment variable not set; " +
			"set it to the path of your concierge.yaml config file, or use --config flag")
	}

	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
//
// The config file is the single source of truth. Environment variables do not
// override config values - this ensures deterministic, auditable configuration.
// The only expansion performed is ${HOME} and similar path variables for portability.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}

	// Apply environment-specific overrides (development/staging/production sections in the file).
	cfg.applyEnvironmentOverrides()

	// Expand ${HOME} and similar variables in paths for portability.
	cfg.expandVariables()

	return cfg, nil
}

// loadFile loads a single configuration file, merging into the current config.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, c)
}

// applyEnvironmentOverrides applies the environment-specific overrides.
func (c *Config) applyEnvironmentOverrides() {
	var overrides *ConfigOverrides

	switch c.Environment {
	case Development:
		overrides = c.Development
	case Staging:
		overrides = c.Staging
	case Production:
		overrides = c.Production
		// Production defaults: state always travels as opaque tokens.
		if overrides == nil {
			overrides = &ConfigOverrides{
				State: &StateConfig{
					Serialized: true,
				},
			}
		}
	}

	if overrides == nil {
		return
	}

	if overrides.Server != nil {
		if overrides.Server.Address != "" {
			c.Server.Address = overrides.Server.Address
		}
		if overrides.Server.ShutdownTimeout != "" {
			c.Server.ShutdownTimeout = overrides.Server.ShutdownTimeout
		}
	}

	if overrides.Schema != nil {
		if overrides.Schema.Definition != "" {
			c.Schema.Definition = overrides.Schema.Definition
		}
		if overrides.Schema.Instructions != "" {
			c.Schema.Instructions = overrides.Schema.Instructions
		}
	}

	if overrides.State != nil {
		// Serialized is a bool, so we always apply it from overrides.
		c.State.Serialized = overrides.State.Serialized
	}

	if overrides.Log != nil {
		if overrides.Log.Level != "" {
			c.Log.Level = overrides.Log.Level
		}
	}
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.Schema.Definition = expandVars(c.Schema.Definition, vars)
	c.Schema.Instructions = expandVars(c.Schema.Instructions, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Environment != Development && c.Environment != Staging && c.Environment != Production {
		errs = append(errs, fmt.Errorf("invalid environment: %s", c.Environment))
	}

	if c.Server.Address == "" {
		errs = append(errs, fmt.Errorf("server.address is required"))
	}

	if c.Server.ShutdownTimeout != "" {
		if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
			errs = append(errs, fmt.Errorf("server.shutdown_timeout is not a duration: %s", c.Server.ShutdownTimeout))
		}
	}

	if c.Schema.Definition == "" {
		errs = append(errs, fmt.Errorf("schema.definition is required"))
	}

	logLevels := []string{"debug", "info", "warn", "error"}
	if !contains(logLevels, c.Log.Level) {
		errs = append(errs, fmt.Errorf("log.level must be one of: %v", logLevels))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// ShutdownTimeout returns the parsed graceful shutdown bound.
// Unset or unparseable values fall back to ten seconds; Validate
// reports unparseable values as errors.
func (c *Config) ShutdownTimeout() time.Duration {
	if c.Server.ShutdownTimeout == "" {
		return 10 * time.Second
	}
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return 10 * time.Second
	}
	return d
}

// LogLevel maps the configured level to a slog.Level.
// Unknown values map to info; Validate reports them as errors.
func (c *Config) LogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
