package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the permute engine and its logging
type Config struct {
	Permute PermuteConfig `yaml:"permute"`
	Logging LoggingConfig `yaml:"logging"`
}

// PermuteConfig configures how permute results are produced
type PermuteConfig struct {
	// SkipIdentity leaves the expanded array untransposed when the
	// computed permutation is the identity.
	SkipIdentity bool `yaml:"skip_identity"`

	// Clone always returns a fresh contiguous buffer instead of a view
	// that may share storage with the input.
	Clone bool `yaml:"clone"`
}

// LoggingConfig configures the zap logger
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		Permute: PermuteConfig{
			SkipIdentity: true,
			Clone:        false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads a YAML configuration file on top of the defaults. A missing
// file yields the defaults. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, errors.Wrap(err, "failed to read config")
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(err, "failed to parse config")
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write config")
	}
	return nil
}

// applyEnvOverrides applies SUBPERM_* environment variables.
func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv("SUBPERM_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SUBPERM_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("SUBPERM_CLONE"); v != "" {
		clone, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrapf(err, "SUBPERM_CLONE=%q", v)
		}
		c.Permute.Clone = clone
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return errors.Wrapf(err, "logging.level")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return errors.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// NewLogger builds a zap logger for the configured level and format.
func (l LoggingConfig) NewLogger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, errors.Wrap(err, "logging.level")
	}
	zc := zap.NewProductionConfig()
	if strings.ToLower(l.Format) == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}
