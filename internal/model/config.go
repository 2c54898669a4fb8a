package model

import (
	"time"

	"github.com/ppiankov/ametrine/internal/exact"
)

// Config represents the complete Ametrine configuration
type Config struct {
	Limits      exact.Limits      `yaml:"limits" mapstructure:"limits"`
	Eval        EvalConfig        `yaml:"eval" mapstructure:"eval"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
}

// EvalConfig controls expression evaluation
type EvalConfig struct {
	PiDigits      int `yaml:"pi_digits" mapstructure:"pi_digits"`           // Digits used by a bare "pi"
	DecimalDigits int `yaml:"decimal_digits" mapstructure:"decimal_digits"` // Significant digits in float approximations
}

// OutputConfig controls report rendering
type OutputConfig struct {
	Dir           string `yaml:"dir" mapstructure:"dir"`
	JSON          bool   `yaml:"json" mapstructure:"json"`
	Markdown      bool   `yaml:"markdown" mapstructure:"markdown"`
	IncludeFooter bool   `yaml:"include_footer" mapstructure:"include_footer"`
	Color         string `yaml:"color" mapstructure:"color"` // auto, always, never
}

// CacheConfig controls the evaluation result cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig controls batch evaluation
type ConcurrencyConfig struct {
	Workers   int           `yaml:"workers" mapstructure:"workers"`
	RateLimit float64       `yaml:"rate_limit" mapstructure:"rate_limit"` // Evaluations per second per source, 0 = unlimited
	Burst     int           `yaml:"burst" mapstructure:"burst"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggingConfig controls structured logging
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // debug, info, warn, error
	JSON  bool   `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Limits: exact.DefaultLimits(),
		Eval: EvalConfig{
			PiDigits:      50,
			DecimalDigits: 15,
		},
		Output: OutputConfig{
			Dir:           "./ametrine-out",
			JSON:          true,
			Markdown:      true,
			IncludeFooter: true,
			Color:         "auto",
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.ametrine/cache",
			MemoryTTL: 10 * time.Minute,
			DiskTTL:   7 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers:   4,
			RateLimit: 0,
			Burst:     5,
			Timeout:   30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
