// ============================================================================
// ForSure - Project Structure Toolkit
// ============================================================================
//
// Package:     config
// Description: TOML configuration for the forsure command line tool
// Author:      Mike Stoffels
// Created:     2026-10-09
// License:     MIT
// ============================================================================

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	fserr "github.com/msto63/forsure/foundation/core/error"
	fslog "github.com/msto63/forsure/foundation/core/log"
)

// EnvConfigPath names the environment variable that points to a config file
const EnvConfigPath = "FORSURE_CONFIG"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general"`
	Parser  ParserConfig  `toml:"parser"`
	Create  CreateConfig  `toml:"create"`
	Convert ConvertConfig `toml:"convert"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxInputSize int `toml:"max_input_size"`
}

// CreateConfig holds defaults for materializing documents
type CreateConfig struct {
	OutputDir string   `toml:"output_dir"`
	DryRun    bool     `toml:"dry_run"`
	Overwrite bool     `toml:"overwrite"`
	DirMode   FileMode `toml:"dir_mode"`
	FileMode  FileMode `toml:"file_mode"`
}

// ConvertConfig holds settings for turning directories into documents
type ConvertConfig struct {
	Ignore         []string `toml:"ignore"`
	IncludeContent bool     `toml:"include_content"`
	MaxFileSize    int64    `toml:"max_file_size"`
}

// HistoryConfig holds the run history database settings
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// WatchConfig holds settings for the watch command
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// FileMode is a permission value written in octal, such as "0755"
type FileMode struct {
	os.FileMode
}

// UnmarshalText parses an octal permission string
func (m *FileMode) UnmarshalText(text []byte) error {
	v, err := strconv.ParseUint(string(text), 8, 32)
	if err != nil {
		return fmt.Errorf("invalid file mode %q: %w", text, err)
	}
	if v > 0o777 {
		return fmt.Errorf("invalid file mode %q: only permission bits are allowed", text)
	}
	m.FileMode = os.FileMode(v)
	return nil
}

// MarshalText formats the permission bits in octal
func (m FileMode) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%04o", uint32(m.FileMode.Perm()))), nil
}

// Default returns a configuration with every default applied
func Default() *Config {
	cfg := &Config{History: HistoryConfig{Enabled: true}}
	cfg.applyDefaults()
	cfg.expandEnvVars()
	return cfg
}

// Load loads configuration from a TOML file
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fserr.Newf("config file not found: %s", path).
			WithCode(fserr.CodeNotFound).
			WithOperation("config.Load")
	}

	cfg := &Config{History: HistoryConfig{Enabled: true}}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fserr.Wrap(err, "failed to parse config").
			WithCode(fserr.CodeConfigError).
			WithOperation("config.Load").
			WithDetail("path", path)
	}

	cfg.applyDefaults()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads configuration from $FORSURE_CONFIG or one of the
// default locations
func LoadFromEnv() (*Config, error) {
	path := os.Getenv(EnvConfigPath)
	if path == "" {
		path = findDefault()
	}

	if path == "" {
		return nil, fserr.Newf("no config file found, set %s or create forsure.toml", EnvConfigPath).
			WithCode(fserr.CodeNotFound).
			WithOperation("config.LoadFromEnv")
	}

	return Load(path)
}

// Resolve returns the configuration used by the command line tool: the
// explicit path if given, otherwise $FORSURE_CONFIG, otherwise the first
// default location that exists, otherwise Default(). The second return
// value is the file that was read, empty for defaults.
func Resolve(explicit string) (*Config, string, error) {
	path := explicit
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		path = findDefault()
	}
	if path == "" {
		return Default(), "", nil
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

// DefaultPaths lists the locations searched when no path is given
func DefaultPaths() []string {
	paths := []string{"./forsure.toml"}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "forsure", "config.toml"))
	}
	return paths
}

func findDefault() string {
	for _, p := range DefaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.LogLevel == "" {
		c.General.LogLevel = "warn"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "console"
	}

	// Parser
	if c.Parser.MaxInputSize == 0 {
		c.Parser.MaxInputSize = 10 << 20
	}

	// Create
	if c.Create.OutputDir == "" {
		c.Create.OutputDir = "."
	}
	if c.Create.DirMode.FileMode == 0 {
		c.Create.DirMode.FileMode = 0o755
	}
	if c.Create.FileMode.FileMode == 0 {
		c.Create.FileMode.FileMode = 0o644
	}

	// Convert
	if c.Convert.Ignore == nil {
		c.Convert.Ignore = []string{".git", "node_modules", "target", ".DS_Store"}
	}
	if c.Convert.MaxFileSize == 0 {
		c.Convert.MaxFileSize = 64 << 10
	}

	// History
	if c.History.Path == "" {
		c.History.Path = filepath.Join("$HOME", ".local", "share", "forsure", "history.db")
	}

	// Watch
	if c.Watch.Debounce.Duration == 0 {
		c.Watch.Debounce.Duration = 200 * time.Millisecond
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Create.OutputDir = os.ExpandEnv(c.Create.OutputDir)
	c.History.Path = os.ExpandEnv(c.History.Path)
}

// Validate checks values that TOML decoding cannot
func (c *Config) Validate() error {
	invalid := func(key string, value interface{}, reason string) error {
		return fserr.Newf("invalid config value %s = %v: %s", key, value, reason).
			WithCode(fserr.CodeInvalidConfig).
			WithOperation("config.Validate").
			WithDetail("key", key)
	}

	if _, err := fslog.ParseLevel(c.General.LogLevel); err != nil {
		return invalid("general.log_level", c.General.LogLevel, "unknown level")
	}
	if _, err := fslog.ParseFormat(c.General.LogFormat); err != nil {
		return invalid("general.log_format", c.General.LogFormat, "unknown format")
	}
	if c.Parser.MaxInputSize < 0 {
		return invalid("parser.max_input_size", c.Parser.MaxInputSize, "must not be negative")
	}
	if c.Convert.MaxFileSize < 0 {
		return invalid("convert.max_file_size", c.Convert.MaxFileSize, "must not be negative")
	}
	if c.Watch.Debounce.Duration < 0 {
		return invalid("watch.debounce", c.Watch.Debounce, "must not be negative")
	}
	if c.Create.DirMode.FileMode&0o700 != 0o700 {
		return invalid("create.dir_mode", c.Create.DirMode, "owner needs rwx on created directories")
	}
	return nil
}
