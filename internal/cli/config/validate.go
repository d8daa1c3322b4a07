package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Accepted values for the enumerated settings.
var (
	OutputModes = []string{"auto", "text", "markdown", "json"}
	LogFormats  = []string{"text", "json"}
	LogLevels   = []string{"debug", "info", "warn", "error"}
)

// Validate reports every invalid setting in c.
func (c *Config) Validate() error {
	var errs []error

	if !slices.Contains(OutputModes, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("invalid output format %q (available: %s)", c.OutputFormat, strings.Join(OutputModes, ", ")))
	}
	if !slices.Contains(LogFormats, strings.ToLower(c.LogFormat)) {
		errs = append(errs, fmt.Errorf("invalid log format %q (available: %s)", c.LogFormat, strings.Join(LogFormats, ", ")))
	}
	if !slices.Contains(LogLevels, strings.ToLower(c.LogLevel)) {
		errs = append(errs, fmt.Errorf("invalid log level %q (available: %s)", c.LogLevel, strings.Join(LogLevels, ", ")))
	}
	if c.Jobs < 0 {
		errs = append(errs, fmt.Errorf("jobs must not be negative, got %d", c.Jobs))
	}
	if c.Indent < 0 {
		errs = append(errs, fmt.Errorf("indent must not be negative, got %d", c.Indent))
	}
	if c.Watch.DebounceMS < 0 {
		errs = append(errs, fmt.Errorf("watch.debounce_ms must not be negative, got %d", c.Watch.DebounceMS))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
