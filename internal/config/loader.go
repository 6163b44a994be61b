// Package config provides configuration management for tokentpl.
//
// This file contains config loading functionality including:
// - XDG config path detection
// - TOML file parsing
// - Environment variable overrides
// - Validation
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	tplerrors "github.com/chazuruo/tokentpl/internal/errors"
)

// DetectConfigPath searches for a config file using XDG standard paths.
// Returns the first config file found, or empty string if none exists.
//
// Search order:
// 1. $XDG_CONFIG_HOME/tokentpl/config.toml
// 2. ~/.config/tokentpl/config.toml
func DetectConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		configPath := filepath.Join(xdg, "tokentpl", "config.toml")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	configPath := filepath.Join(homeDir, ".config", "tokentpl", "config.toml")
	if _, err := os.Stat(configPath); err == nil {
		return configPath
	}

	return ""
}

// DefaultConfigPath returns where a new config file is written:
// $XDG_CONFIG_HOME/tokentpl/config.toml when set, else ~/.config/tokentpl/config.toml.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tokentpl", "config.toml")
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "tokentpl", "config.toml")
}

// Load loads a config from the specified path.
// If the file doesn't exist, returns an error.
// After loading, applies environment variable overrides and validates.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, &tplerrors.ConfigError{Path: path, Err: tplerrors.ErrNotFound}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("%w: %v", tplerrors.ErrIO, err)}
	}

	// Start with defaults
	cfg := DefaultConfig()

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("failed to parse: %w", err)}
	}

	applyEnvOverrides(cfg)
	expandPath(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, &tplerrors.ConfigError{Path: path, Err: fmt.Errorf("validation failed: %w", err)}
	}

	return cfg, nil
}

// LoadWithDefaults loads the config at path, or from XDG standard paths
// when path is empty. If no config file is found, returns a config with
// all default values.
func LoadWithDefaults(path string) (*Config, error) {
	if path == "" {
		path = DetectConfigPath()
	}
	if path == "" {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		expandPath(cfg)
		if err := cfg.Validate(); err != nil {
			return nil, &tplerrors.ConfigError{Err: fmt.Errorf("validation failed: %w", err)}
		}
		return cfg, nil
	}

	return Load(path)
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables follow the pattern: TOKENTPL_<SECTION>_<FIELD>
//
// Examples:
// - TOKENTPL_PLACEHOLDERS_OPEN overrides [placeholders].open
// - TOKENTPL_MATCH_ANCHORED overrides [match].anchored
//
// Boolean fields: use "true"/"false" strings
func applyEnvOverrides(c *Config) {
	applyString := func(key string, target *string) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			*target = val
		}
	}

	applyBool := func(key string, target *bool) {
		if val, ok := os.LookupEnv(key); ok && val != "" {
			switch strings.ToLower(val) {
			case "true", "1", "yes", "on":
				*target = true
			case "false", "0", "no", "off":
				*target = false
			}
		}
	}

	// Placeholders section
	applyString("TOKENTPL_PLACEHOLDERS_OPEN", &c.Placeholders.Open)
	applyString("TOKENTPL_PLACEHOLDERS_CLOSE", &c.Placeholders.Close)
	applyString("TOKENTPL_PLACEHOLDERS_PATTERN", &c.Placeholders.Pattern)
	applyString("TOKENTPL_PLACEHOLDERS_DEFAULT_CONSTRAINT", &c.Placeholders.DefaultConstraint)

	// Match section
	applyBool("TOKENTPL_MATCH_ANCHORED", &c.Match.Anchored)
	applyBool("TOKENTPL_MATCH_CASE_INSENSITIVE", &c.Match.CaseInsensitive)
	applyString("TOKENTPL_MATCH_DELIMITER", &c.Match.Delimiter)

	// Output section
	applyString("TOKENTPL_OUTPUT_FORMAT", &c.Output.Format)
	applyBool("TOKENTPL_OUTPUT_COLOR", &c.Output.Color)
	applyString("TOKENTPL_OUTPUT_LOG_LEVEL", &c.Output.LogLevel)

	// Definitions section
	applyString("TOKENTPL_DEFINITIONS_DIR", &c.Definitions.Dir)

	// NO_COLOR disables styling regardless of config.
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		c.Output.Color = false
	}
}

// expandPath expands ~ to the home directory in the definitions dir.
func expandPath(c *Config) {
	if strings.HasPrefix(c.Definitions.Dir, "~/") || c.Definitions.Dir == "~" {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			c.Definitions.Dir = filepath.Join(homeDir, strings.TrimPrefix(c.Definitions.Dir, "~/"))
		}
	}
}
