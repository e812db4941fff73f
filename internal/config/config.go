// Package config loads process-wide dispatch settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is the environment variable prefix, e.g. MULTIVERSION_FORCE_GENERIC.
const Prefix = "MULTIVERSION"

// Config validation errors
var (
	ErrInvalidLogFormat   = errors.New("log_format must be 'json' or 'console'")
	ErrInvalidLogLevel    = errors.New("log_level must be trace, debug, info, warn, or error")
	ErrInvalidStrategy    = errors.New("strategy must be default, static, direct, or indirect")
	ErrInvalidFeatureName = errors.New("disabled_features entries must be non-empty feature names")
)

// Config holds the settings every dispatcher in the process honours.
type Config struct {
	// ForceGeneric makes every runtime probe report absent, so only default
	// variants run.
	ForceGeneric bool `envconfig:"FORCE_GENERIC" default:"false"`
	// DisabledFeatures are reported absent regardless of the CPU.
	DisabledFeatures []string `envconfig:"DISABLED_FEATURES"`
	// Strategy overrides the default policy for dispatchers that do not pick one.
	Strategy string `envconfig:"STRATEGY" default:"default"`
	// IndirectHardening avoids indirect calls through the function pointer slot.
	IndirectHardening bool `envconfig:"INDIRECT_HARDENING" default:"false"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Strategy:  "default",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load reads MULTIVERSION_* variables and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return DefaultConfig(), err
	}
	return cfg, nil
}

var (
	processOnce sync.Once
	processCfg  Config
	processErr  error
)

// Process returns the configuration loaded once from the environment. When
// the environment is invalid the defaults are returned along with the error.
func Process() (Config, error) {
	processOnce.Do(func() {
		processCfg, processErr = Load()
	})
	return processCfg, processErr
}

// ValidateConfig validates the configuration and returns an error if invalid
func ValidateConfig(cfg *Config) error {
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return ErrInvalidLogFormat
	}
	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return ErrInvalidLogLevel
	}
	switch strings.ToLower(cfg.Strategy) {
	case "", "default", "static", "direct", "indirect":
	default:
		return ErrInvalidStrategy
	}
	for _, f := range cfg.DisabledFeatures {
		if strings.TrimSpace(f) == "" {
			return ErrInvalidFeatureName
		}
	}
	return nil
}

// Disabled returns the disabled features with surrounding space removed.
func (c Config) Disabled() []string {
	out := make([]string, 0, len(c.DisabledFeatures))
	for _, f := range c.DisabledFeatures {
		out = append(out, strings.TrimSpace(f))
	}
	return out
}
