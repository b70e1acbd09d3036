// Copyright 2026 The Hrdesk Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for hrdesk.
//
// Configuration is loaded from a single YAML file specified by:
//   - HRDESK_CONFIG environment variable, or
//   - --config flag passed to the command
//
// Every field has a working default, so hrdesk runs with no config
// file at all; the file overrides, it never gates startup. The only
// expansion performed on values is ${VAR} and ${VAR:-default} in
// paths, for portability across home directories.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "25m" or "30s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the duration as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

// Config is the master configuration for hrdesk.
type Config struct {
	// Server configures the HR API endpoint.
	Server ServerConfig `yaml:"server"`

	// Session configures session lifecycle behavior.
	Session SessionConfig `yaml:"session"`

	// State configures local state storage.
	State StateConfig `yaml:"state"`

	// Log configures diagnostic logging.
	Log LogConfig `yaml:"log"`
}

// ServerConfig configures the HR API endpoint.
type ServerConfig struct {
	// URL is the base URL of the HR server, without a trailing slash.
	// Default: http://localhost:3000
	URL string `yaml:"url"`

	// RequestTimeout bounds each individual API request.
	// Default: 30s
	RequestTimeout Duration `yaml:"request_timeout"`
}

// SessionConfig configures session lifecycle behavior.
type SessionConfig struct {
	// KeepaliveInterval is how often the session is extended while
	// the client is open. The server expires idle sessions after 30
	// minutes; the default leaves a 5-minute margin.
	// Default: 25m
	KeepaliveInterval Duration `yaml:"keepalive_interval"`
}

// StateConfig configures local state storage.
type StateConfig struct {
	// File is the path of the state file. An empty value means the
	// XDG-derived default (see localstore.StateFilePath).
	File string `yaml:"file"`
}

// LogConfig configures diagnostic logging.
type LogConfig struct {
	// Level is the minimum level to emit: debug, info, warn, error.
	// Default: info
	Level string `yaml:"level"`

	// Output is the path of the log file. Logs never go to the
	// terminal — the terminal belongs to the UI. An empty value
	// discards logs.
	Output string `yaml:"output"`
}

// Default returns the default configuration. These defaults are
// complete: hrdesk starts and works with no config file present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "http://localhost:3000",
			RequestTimeout: Duration(30 * time.Second),
		},
		Session: SessionConfig{
			KeepaliveInterval: Duration(25 * time.Minute),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from the HRDESK_CONFIG environment
// variable when it is set, and returns Default otherwise.
func Load() (*Config, error) {
	configPath := os.Getenv("HRDESK_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, layered
// over Default. Environment variables do not override file values;
// the only expansion performed is ${VAR} patterns in path fields.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in
// path-valued fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}

	c.State.File = expandVars(c.State.File, vars)
	c.Log.Output = expandVars(c.Log.Output, vars)
}

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

	parsed, err := url.Parse(c.Server.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		errs = append(errs, fmt.Errorf("server.url must be an absolute URL, got %q", c.Server.URL))
	}

	if c.Server.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("server.request_timeout must be positive"))
	}

	if c.Session.KeepaliveInterval.Std() < time.Minute {
		errs = append(errs, fmt.Errorf("session.keepalive_interval must be at least 1m, got %s", c.Session.KeepaliveInterval))
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level must be one of: debug, info, warn, error"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
