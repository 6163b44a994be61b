// Package logger provides a leveled logger that can be silenced for quiet
// or machine-readable output.
package logger

import (
	"io"
	"log"
	"os"
	"strings"
	"sync"
)

// Level controls which messages are emitted.
type Level int

const (
	// LevelQuiet suppresses everything except warnings.
	LevelQuiet Level = iota
	// LevelInfo emits informational messages and warnings.
	LevelInfo
	// LevelDebug emits everything.
	LevelDebug
)

// ParseLevel converts a config string into a Level. Unknown strings map to LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quiet", "silent", "none":
		return LevelQuiet
	case "debug", "trace":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// Logger writes prefixed, leveled lines to an io.Writer.
type Logger struct {
	mu    sync.Mutex
	out   *log.Logger
	level Level
}

// New creates a Logger writing to w at the given level.
// Use io.Discard to silence all logging.
func New(w io.Writer, level Level) *Logger {
	return &Logger{out: log.New(w, "", 0), level: level}
}

// SetLevel changes the level of l.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput configures the logger output destination.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = log.New(w, "", 0)
}

func (l *Logger) printf(min Level, prefix, format string, args ...any) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level < min {
		return
	}
	l.out.Printf(prefix+format, args...)
}

// Warn logs a warning message. Warnings are emitted at every level.
func (l *Logger) Warn(format string, args ...any) {
	l.printf(LevelQuiet, "warning: ", format, args...)
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	l.printf(LevelInfo, "", format, args...)
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	l.printf(LevelDebug, "debug: ", format, args...)
}

// Default logs to stderr at LevelInfo.
var std = New(os.Stderr, LevelInfo)

// Default returns the process-wide logger.
func Default() *Logger { return std }

// SetOutput configures the default logger output destination.
func SetOutput(w io.Writer) { std.SetOutput(w) }

// SetLevel configures the default logger level.
func SetLevel(level Level) { std.SetLevel(level) }

// Warn logs a warning on the default logger.
func Warn(format string, args ...any) { std.Warn(format, args...) }

// Info logs an informational message on the default logger.
func Info(format string, args ...any) { std.Info(format, args...) }

// Debug logs a debug message on the default logger.
func Debug(format string, args ...any) { std.Debug(format, args...) }
