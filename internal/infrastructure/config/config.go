// Package config provides configuration loading for the regiongate application.
// Settings come from environment variables, optionally layered over a YAML
// file; environment variables always win.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	// EnvConfigFile is the path to an optional YAML configuration file.
	EnvConfigFile = "REGIONGATE_CONFIG"

	// EnvIncludedRegions is the multi-line list of include region patterns.
	EnvIncludedRegions = "REGIONGATE_INCLUDED_REGIONS"

	// EnvExcludedBranch is the branch whose shared commits are excluded.
	EnvExcludedBranch = "REGIONGATE_EXCLUDED_BRANCH"

	// EnvOnError selects the fail policy: "skip" or "build".
	EnvOnError = "REGIONGATE_ON_ERROR"

	// EnvCacheSize is the changed-file cache capacity.
	EnvCacheSize = "REGIONGATE_CACHE_SIZE"

	// EnvLogLevel is the log level (debug, info, warn, error).
	EnvLogLevel = "LOG_LEVEL"

	// EnvLogAppName is the application name for log context.
	EnvLogAppName = "LOG_APP_NAME"
)

// Fail policy values accepted by EnvOnError.
const (
	OnErrorSkip  = "skip"
	OnErrorBuild = "build"
)

// Default values.
const (
	DefaultOnError    = OnErrorSkip
	DefaultCacheSize  = 128
	DefaultLogLevel   = "info"
	DefaultLogAppName = "regiongate"
)

// Configuration errors.
var (
	// ErrConfigFileNotFound indicates the configured YAML file does not exist.
	ErrConfigFileNotFound = errors.New("configuration file not found")

	// ErrConfigFileInvalid indicates the configuration file is not valid YAML.
	ErrConfigFileInvalid = errors.New("configuration file is not valid YAML")

	// ErrInvalidOnError indicates an unrecognized fail policy value.
	ErrInvalidOnError = errors.New(`invalid fail policy: must be "skip" or "build"`)

	// ErrInvalidCacheSize indicates a cache size that is not a positive integer.
	ErrInvalidCacheSize = errors.New("invalid cache size: must be a positive integer")
)

// Config holds all application configuration.
type Config struct {
	// IncludedRegions is the multi-line string of Ant-style glob patterns
	// that select which changed files trigger a build.
	IncludedRegions string `yaml:"included_regions"`

	// ExcludedBranch names a branch whose shared commits do not count
	// toward the trigger decision. Trimmed; empty disables exclusion.
	ExcludedBranch string `yaml:"excluded_branch"`

	// OnError is the fail policy applied when a decision cannot be
	// evaluated: "skip" (fail closed, the default) or "build" (fail open).
	OnError string `yaml:"on_error"`

	// CacheSize is the capacity of the changed-file cache.
	CacheSize int `yaml:"cache_size"`

	// LogLevel is the logging level (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	// LogAppName is the application name for log context.
	LogAppName string `yaml:"log_app_name"`
}

// BuildOnError reports whether the fail policy is fail-open.
func (c *Config) BuildOnError() bool {
	return c.OnError == OnErrorBuild
}

// Defaults returns a Config populated with default values only.
func Defaults() *Config {
	return &Config{
		OnError:    DefaultOnError,
		CacheSize:  DefaultCacheSize,
		LogLevel:   DefaultLogLevel,
		LogAppName: DefaultLogAppName,
	}
}

// Load loads the application configuration. When REGIONGATE_CONFIG points
// at a YAML file its values form the base; environment variables override
// them; unset settings fall back to defaults.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	cfg.ExcludedBranch = strings.TrimSpace(cfg.ExcludedBranch)

	if cfg.OnError != OnErrorSkip && cfg.OnError != OnErrorBuild {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOnError, cfg.OnError)
	}
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCacheSize, cfg.CacheSize)
	}

	return cfg, nil
}

// loadFile layers a YAML file's values onto cfg. Fields absent from the
// file keep their current values.
func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrConfigFileNotFound, path)
		}
		return fmt.Errorf("read configuration file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigFileInvalid, err)
	}

	// A file that sets cache_size to zero means "unset", not "no cache".
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.OnError == "" {
		cfg.OnError = DefaultOnError
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.LogAppName == "" {
		cfg.LogAppName = DefaultLogAppName
	}
	return nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvIncludedRegions); ok {
		cfg.IncludedRegions = v
	}
	if v, ok := os.LookupEnv(EnvExcludedBranch); ok {
		cfg.ExcludedBranch = v
	}
	if v, ok := os.LookupEnv(EnvOnError); ok {
		cfg.OnError = v
	}
	if v, ok := os.LookupEnv(EnvCacheSize); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.CacheSize = n
		} else {
			// Force validation failure below instead of silently ignoring.
			cfg.CacheSize = -1
		}
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogAppName); ok {
		cfg.LogAppName = v
	}
}
