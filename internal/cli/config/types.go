// Package config provides configuration management for the g2kts CLI.
//
// Settings are layered from defaults, an optional g2kts.yaml file,
// G2KTS_* environment variables and finally explicitly set flags.
package config

import (
	"time"

	"github.com/leapstack-labs/g2kts/internal/engine"
	"github.com/leapstack-labs/g2kts/pkg/lower"
)

// Config holds all CLI configuration options.
type Config struct {
	OutputDir       string       `koanf:"output_dir"`
	Jobs            int          `koanf:"jobs"`
	FailFast        bool         `koanf:"fail_fast"`
	Verbose         bool         `koanf:"verbose"`
	OutputFormat    string       `koanf:"output"`
	LogLevel        string       `koanf:"log_level"`
	LogFormat       string       `koanf:"log_format"`
	DefaultTaskType string       `koanf:"default_task_type"`
	Indent          int          `koanf:"indent"`
	Passes          PassesConfig `koanf:"passes"`
	Watch           WatchConfig  `koanf:"watch"`
}

// PassesConfig selects transformation passes.
type PassesConfig struct {
	Disable []string `koanf:"disable"`
}

// WatchConfig holds settings for watch mode.
type WatchConfig struct {
	DebounceMS int `koanf:"debounce_ms"`
}

// Debounce returns the watch debounce as a duration.
func (w WatchConfig) Debounce() time.Duration {
	return time.Duration(w.DebounceMS) * time.Millisecond
}

// Default configuration values.
const (
	DefaultOutput     = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultIndent     = 4
	DefaultDebounceMS = 100
)

// Default returns the configuration used when nothing else is set.
func Default() *Config {
	return &Config{
		OutputFormat:    DefaultOutput,
		LogLevel:        DefaultLogLevel,
		LogFormat:       DefaultLogFormat,
		DefaultTaskType: lower.DefaultTaskType,
		Indent:          DefaultIndent,
		Watch:           WatchConfig{DebounceMS: DefaultDebounceMS},
	}
}

// EngineConfig translates the CLI settings into an engine configuration.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		DefaultTaskType: c.DefaultTaskType,
		Indent:          c.Indent,
		DisabledPasses:  c.Passes.Disable,
		OutputDir:       c.OutputDir,
		Jobs:            c.Jobs,
		FailFast:        c.FailFast,
		Debounce:        c.Watch.Debounce(),
	}
}
