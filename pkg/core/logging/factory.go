// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     logging
// Description: Factory functions for creating foundation loggers
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package logging

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	fslog "github.com/msto63/forsure/foundation/core/log"
	"github.com/msto63/forsure/pkg/core/config"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Component name written with every entry
	Name string

	// Log level (trace, debug, info, warn, error)
	Level string

	// Output format: console, text, json or logfmt
	Format string

	// Output defaults to stderr so command output on stdout stays clean
	Output io.Writer

	// Additional outputs besides Output
	AdditionalOutputs []io.Writer

	EnableCaller bool
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(name string) LoggerConfig {
	return LoggerConfig{
		Name:   name,
		Level:  "warn",
		Format: "console",
	}
}

// NewLogger creates a new foundation logger
func NewLogger(cfg LoggerConfig) *fslog.Logger {
	level, err := fslog.ParseLevel(cfg.Level)
	if err != nil {
		level = fslog.LevelWarn
	}

	format, err := fslog.ParseFormat(cfg.Format)
	if err != nil {
		format = fslog.FormatConsole
	}

	var output io.Writer = os.Stderr
	if cfg.Output != nil {
		output = cfg.Output
	}

	// colors only when the console format goes to a terminal
	if format == fslog.FormatConsole && !isTerminal(output) {
		format = fslog.FormatText
	}

	if len(cfg.AdditionalOutputs) > 0 {
		writers := append([]io.Writer{output}, cfg.AdditionalOutputs...)
		output = io.MultiWriter(writers...)
	}

	return fslog.NewWithConfig(fslog.Config{
		Level:        level,
		Format:       format,
		Output:       output,
		Name:         cfg.Name,
		EnableCaller: cfg.EnableCaller,
	})
}

// FromConfig creates the command line logger from the [general] section.
// verbose lowers the level to debug unless the config asks for trace.
func FromConfig(general config.GeneralConfig, verbose bool) *fslog.Logger {
	cfg := DefaultLoggerConfig("forsure")
	cfg.Level = general.LogLevel
	cfg.Format = general.LogFormat

	if verbose {
		if level, err := fslog.ParseLevel(cfg.Level); err != nil || level > fslog.LevelDebug {
			cfg.Level = "debug"
		}
	}

	return NewLogger(cfg)
}

// NewSimpleLogger creates a logger with the default configuration
func NewSimpleLogger(name string) *fslog.Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
