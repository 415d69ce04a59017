// Package config loads the capacity and replace policy for cstr strings
// from an optional file and CSTR_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rubiojr/cstr/buffer"
	"github.com/rubiojr/cstr/str"
)

// EnvPrefix prefixes every environment override, e.g. CSTR_CAPACITY_FLOOR.
const EnvPrefix = "CSTR"

// Empty pattern modes accepted in configuration.
const (
	EmptyPatternError = "error"
	EmptyPatternNoop  = "noop"
)

// Config holds the tunable policy of every String the CLI builds. Field
// tags name the file keys; the environment uses the same names upper-cased
// behind EnvPrefix.
type Config struct {
	CapacityFloor  int     `mapstructure:"capacity_floor"`
	TaperThreshold int     `mapstructure:"taper_threshold"`
	CreateSlack    float64 `mapstructure:"create_slack"`
	MaxCapacity    int     `mapstructure:"max_capacity"`
	LazyShrink     bool    `mapstructure:"lazy_shrink"`
	EmptyPattern   string  `mapstructure:"empty_pattern"`
}

// DefaultConfig returns the built-in policy: buffer.DefaultPolicy and
// empty patterns rejected.
func DefaultConfig() *Config {
	p := buffer.DefaultPolicy()
	return &Config{
		CapacityFloor:  p.Floor,
		TaperThreshold: p.TaperThreshold,
		CreateSlack:    p.CreateSlack,
		MaxCapacity:    p.MaxCapacity,
		LazyShrink:     p.LazyShrink,
		EmptyPattern:   EmptyPatternError,
	}
}

// Load reads configuration with precedence environment > file > defaults.
// An empty path skips the file. The file format follows its extension
// (yaml, toml, json).
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetDefault("capacity_floor", cfg.CapacityFloor)
	v.SetDefault("taper_threshold", cfg.TaperThreshold)
	v.SetDefault("create_slack", cfg.CreateSlack)
	v.SetDefault("max_capacity", cfg.MaxCapacity)
	v.SetDefault("lazy_shrink", cfg.LazyShrink)
	v.SetDefault("empty_pattern", cfg.EmptyPattern)
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				return nil, fmt.Errorf("config file %s not found", path)
			}
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.EmptyPattern = strings.ToLower(strings.TrimSpace(cfg.EmptyPattern))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Policy returns the buffer policy described by the configuration.
func (c *Config) Policy() buffer.Policy {
	return buffer.Policy{
		Floor:          c.CapacityFloor,
		TaperThreshold: c.TaperThreshold,
		CreateSlack:    c.CreateSlack,
		MaxCapacity:    c.MaxCapacity,
		LazyShrink:     c.LazyShrink,
	}
}

// Validate checks the policy constants and the empty pattern mode.
func (c *Config) Validate() error {
	if err := c.Policy().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	switch c.EmptyPattern {
	case EmptyPatternError, EmptyPatternNoop:
	default:
		return fmt.Errorf("invalid config: empty_pattern must be %q or %q, got %q",
			EmptyPatternError, EmptyPatternNoop, c.EmptyPattern)
	}
	return nil
}

// Options converts the configuration into str options.
func (c *Config) Options() []str.Option {
	mode := str.EmptyPatternError
	if c.EmptyPattern == EmptyPatternNoop {
		mode = str.EmptyPatternNoop
	}
	return []str.Option{
		str.WithPolicy(c.Policy()),
		str.WithEmptyPattern(mode),
	}
}
