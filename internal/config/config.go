// Package config provides configuration management for tokentpl.
//
// The configuration is stored in TOML format and supports validation
// and default values for all fields.
package config

import (
	"fmt"
	"os/user"
	"path/filepath"

	"github.com/chazuruo/tokentpl/internal/placeholders"
)

// Config is the top-level configuration struct for tokentpl.
type Config struct {
	Placeholders PlaceholdersConfig `toml:"placeholders"`
	Match        MatchConfig        `toml:"match"`
	Output       OutputConfig       `toml:"output"`
	Definitions  DefinitionsConfig  `toml:"definitions"`
}

// PlaceholdersConfig controls how placeholders are discovered.
type PlaceholdersConfig struct {
	// Open is the opening delimiter (default: "{").
	Open string `toml:"open"`

	// Close is the closing delimiter (default: "}").
	Close string `toml:"close"`

	// Pattern is a full placeholder regex with one capturing group.
	// When set it takes precedence over Open and Close.
	Pattern string `toml:"pattern"`

	// DefaultConstraint is used for placeholders without a constraint.
	DefaultConstraint string `toml:"default_constraint"`
}

// MatchConfig controls the synthesized matching regex.
type MatchConfig struct {
	// Anchored requires the whole input to conform.
	Anchored bool `toml:"anchored"`

	// CaseInsensitive ignores letter case when matching.
	CaseInsensitive bool `toml:"case_insensitive"`

	// Delimiter wraps the regex printed by the regex command.
	Delimiter string `toml:"delimiter"`
}

// OutputConfig controls command output.
type OutputConfig struct {
	// Format is the default output format.
	// Valid values: "text", "json".
	Format string `toml:"format"`

	// Color enables styled terminal output.
	Color bool `toml:"color"`

	// LogLevel controls diagnostic output.
	// Valid values: "quiet", "info", "debug".
	LogLevel string `toml:"log_level"`
}

// DefinitionsConfig controls where named definitions are looked up.
type DefinitionsConfig struct {
	// Dir is the directory searched for <name>.yaml definitions.
	Dir string `toml:"dir"`
}

// DefaultConfig returns a Config with all default values set.
func DefaultConfig() *Config {
	usr, _ := user.Current()
	homeDir := ""
	if usr != nil {
		homeDir = usr.HomeDir
	}

	return &Config{
		Placeholders: PlaceholdersConfig{
			Open:              placeholders.DefaultOpen,
			Close:             placeholders.DefaultClose,
			Pattern:           "",
			DefaultConstraint: placeholders.DefaultConstraint,
		},
		Match: MatchConfig{
			Anchored:        true,
			CaseInsensitive: false,
			Delimiter:       placeholders.DefaultDelimiter,
		},
		Output: OutputConfig{
			Format:   "text",
			Color:    true,
			LogLevel: "info",
		},
		Definitions: DefinitionsConfig{
			Dir: filepath.Join(homeDir, ".local", "share", "tokentpl", "templates"),
		},
	}
}

// PlaceholderPattern returns the effective placeholder pattern.
func (c *Config) PlaceholderPattern() string {
	if c.Placeholders.Pattern != "" {
		return c.Placeholders.Pattern
	}
	return placeholders.Pattern(c.Placeholders.Open, c.Placeholders.Close)
}

// TemplateOptions maps the configuration onto template options.
func (c *Config) TemplateOptions() []placeholders.Option {
	return []placeholders.Option{
		placeholders.WithPattern(c.PlaceholderPattern()),
		placeholders.WithDefaultConstraint(c.Placeholders.DefaultConstraint),
		placeholders.WithAnchored(c.Match.Anchored),
		placeholders.WithCaseInsensitive(c.Match.CaseInsensitive),
	}
}

// Validate checks the configuration for valid values.
// Returns a nil error if the config is valid, or an error describing the problem.
func (c *Config) Validate() error {
	// Validate Placeholders section
	if c.Placeholders.Pattern == "" {
		if c.Placeholders.Open == "" {
			return fmt.Errorf("placeholders.open cannot be empty")
		}
		if c.Placeholders.Close == "" {
			return fmt.Errorf("placeholders.close cannot be empty")
		}
	}
	if _, err := placeholders.CompilePattern(c.PlaceholderPattern()); err != nil {
		return fmt.Errorf("placeholders: %w", err)
	}
	if c.Placeholders.DefaultConstraint != "" {
		if err := placeholders.CheckConstraint("", c.Placeholders.DefaultConstraint); err != nil {
			return fmt.Errorf("placeholders.default_constraint: %w", err)
		}
	}

	// Validate Match section
	if err := placeholders.CheckDelimiter(c.Match.Delimiter); err != nil {
		return fmt.Errorf("match.delimiter: %w", err)
	}

	// Validate Output section
	validFormats := map[string]bool{
		"text": true,
		"json": true,
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("output.format must be one of: text, json; got %q", c.Output.Format)
	}
	validLogLevels := map[string]bool{
		"quiet": true,
		"info":  true,
		"debug": true,
	}
	if !validLogLevels[c.Output.LogLevel] {
		return fmt.Errorf("output.log_level must be one of: quiet, info, debug; got %q", c.Output.LogLevel)
	}

	return nil
}
