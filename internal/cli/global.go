// Package cli provides global state and utilities for CLI commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/chazuruo/tokentpl/internal/config"
	"github.com/chazuruo/tokentpl/internal/definitions/store"
	"github.com/chazuruo/tokentpl/internal/logger"
	"github.com/chazuruo/tokentpl/internal/placeholders"
	"github.com/chazuruo/tokentpl/internal/tui"
)

var (
	// ConfigPath overrides config file detection.
	// This is set by the global --config flag.
	ConfigPath string

	// Quiet suppresses informational diagnostics.
	// This is set by the global --quiet flag.
	Quiet bool

	// NoTUI indicates that TUI/interactive mode should be disabled.
	// This is set by the global --no-tui flag.
	NoTUI bool

	// globalsMutex protects the global flags for concurrent access.
	globalsMutex sync.RWMutex
)

// AddGlobalFlags adds global flags to a command.
func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&ConfigPath, "config", "",
		"config file path (default: $XDG_CONFIG_HOME/tokentpl/config.toml)")
	cmd.PersistentFlags().BoolVarP(&Quiet, "quiet", "q", false,
		"suppress informational output")
	cmd.PersistentFlags().BoolVar(&NoTUI, "no-tui", false,
		"disable TUI/interactive mode; use plain text or JSON output")
}

// IsNoTUI returns true if TUI mode is disabled.
func IsNoTUI() bool {
	globalsMutex.RLock()
	defer globalsMutex.RUnlock()
	return NoTUI
}

// Env is what every command needs after startup: the effective
// configuration, a logger, the definitions store and the command streams.
type Env struct {
	Config *config.Config
	Log    *logger.Logger
	Store  *store.FileSystemStore
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// setup loads the configuration and wires logging, styling and the default
// placeholder pattern for the process.
func setup(cmd *cobra.Command) (*Env, error) {
	globalsMutex.RLock()
	path, quiet := ConfigPath, Quiet
	globalsMutex.RUnlock()

	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := logger.ParseLevel(cfg.Output.LogLevel)
	if quiet {
		level = logger.LevelQuiet
	}
	log := logger.New(cmd.ErrOrStderr(), level)
	logger.SetOutput(cmd.ErrOrStderr())
	logger.SetLevel(level)

	tui.SetColor(cfg.Output.Color)
	placeholders.SetDefaultPattern(cfg.PlaceholderPattern())

	str, err := store.New(cfg.Definitions.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open definitions store: %w", err)
	}

	log.Debug("config: %s", describeConfigSource(path))

	return &Env{
		Config: cfg,
		Log:    log,
		Store:  str,
		In:     cmd.InOrStdin(),
		Out:    cmd.OutOrStdout(),
		ErrOut: cmd.ErrOrStderr(),
	}, nil
}

func describeConfigSource(path string) string {
	if path != "" {
		return path
	}
	if detected := config.DetectConfigPath(); detected != "" {
		return detected
	}
	return "defaults"
}

// isTerminal reports whether r is an interactive terminal.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
