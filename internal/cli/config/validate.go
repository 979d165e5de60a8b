package config

import (
	"fmt"
	"slices"
	"strings"
)

var outputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !slices.Contains(outputModes, c.OutputFormat) {
		return fmt.Errorf("invalid output %q: must be one of %s", c.OutputFormat, strings.Join(outputModes, ", "))
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch_debounce must not be negative, got %s", c.WatchDebounce)
	}
	if len(c.Columns) == 0 {
		return fmt.Errorf("columns must name at least one column")
	}
	for _, col := range c.Columns {
		if !slices.Contains(KnownColumns, col) {
			return fmt.Errorf("unknown column %q: known columns are %s", col, strings.Join(KnownColumns, ", "))
		}
	}
	return nil
}
