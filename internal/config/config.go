// Package config provides configuration management for quorum.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mrz1836/quorum/internal/fileutil"
)

// Config represents the application configuration.
type Config struct {
	Version  int            `yaml:"version"`
	Home     string         `yaml:"home"`
	Shares   SharesConfig   `yaml:"shares"`
	Security SecurityConfig `yaml:"security"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// SharesConfig defines share generation defaults.
type SharesConfig struct {
	Strict       bool   `yaml:"strict"`
	Fingerprints bool   `yaml:"fingerprints"`
	SealedDir    string `yaml:"sealed_dir"`
}

// SecurityConfig defines security settings.
type SecurityConfig struct {
	MemoryLock       bool `yaml:"memory_lock"`
	ScryptWorkFactor int  `yaml:"scrypt_work_factor"`
}

// OutputConfig defines output formatting settings.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format"`
	Color         string `yaml:"color"`
	Verbose       bool   `yaml:"verbose"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Bounds for the scrypt work factor accepted in config.
const (
	MinScryptWorkFactor = 10
	MaxScryptWorkFactor = 22
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads configuration from the specified file, on top of Defaults.
func Load(path string) (*Config, error) {
	// #nosec G304 -- config file path is from validated user input
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but returns Defaults when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return Defaults(), nil
	}
	return cfg, err
}

// Save writes configuration to the specified file.
func Save(cfg *Config, path string) error {
	if err := fileutil.EnsureDir(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return fileutil.WriteAtomic(path, data, 0o600)
}

// Validate checks enumerated settings and numeric bounds.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.DefaultFormat) {
	case "auto", "text", "json":
	default:
		return fmt.Errorf("%w: output.default_format %q", ErrInvalidConfig, c.Output.DefaultFormat)
	}

	switch strings.ToLower(c.Output.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("%w: output.color %q", ErrInvalidConfig, c.Output.Color)
	}

	if _, ok := lookupLogLevel(c.Logging.Level); !ok {
		return fmt.Errorf("%w: logging.level %q", ErrInvalidConfig, c.Logging.Level)
	}

	switch strings.ToLower(c.Logging.Format) {
	case "", LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}

	if c.Security.ScryptWorkFactor < MinScryptWorkFactor || c.Security.ScryptWorkFactor > MaxScryptWorkFactor {
		return fmt.Errorf("%w: security.scrypt_work_factor must be between %d and %d",
			ErrInvalidConfig, MinScryptWorkFactor, MaxScryptWorkFactor)
	}

	return nil
}

// Path returns the config file path inside home.
func Path(home string) string {
	return filepath.Join(home, "config.yaml")
}

// GetHome returns the quorum home directory path.
func (c *Config) GetHome() string {
	return c.Home
}

// GetLoggingLevel returns the configured logging level.
func (c *Config) GetLoggingLevel() string {
	return c.Logging.Level
}

// GetLoggingFormat returns the configured log record format.
func (c *Config) GetLoggingFormat() string {
	return c.Logging.Format
}

// GetLoggingFile returns the configured log file path.
func (c *Config) GetLoggingFile() string {
	return c.Logging.File
}

// GetOutputFormat returns the default output format.
func (c *Config) GetOutputFormat() string {
	return c.Output.DefaultFormat
}

// IsVerbose returns true if verbose output is enabled.
func (c *Config) IsVerbose() bool {
	return c.Output.Verbose
}

// GetShares returns the share generation settings.
func (c *Config) GetShares() SharesConfig {
	return c.Shares
}

// GetSecurity returns the security configuration.
func (c *Config) GetSecurity() SecurityConfig {
	return c.Security
}

// DefaultHome returns the default quorum home directory.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".quorum"
	}
	return filepath.Join(home, ".quorum")
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, path[2:]), nil
}
