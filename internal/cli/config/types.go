// Package config provides configuration management for the leaptype CLI.
package config

import "time"

// Config holds all CLI configuration options.
type Config struct {
	// TypesFile is an atom type catalog to use instead of the embedded one.
	TypesFile    string   `koanf:"types_file"`
	Workers      int      `koanf:"workers"`
	OutputFormat string   `koanf:"output"`
	Verbose      bool     `koanf:"verbose"`
	StatePath    string   `koanf:"state_path"`
	Metrics      string   `koanf:"metrics"`
	Columns      []string `koanf:"columns"`
	// WatchDebounce delays a re-run after the watched input changes.
	WatchDebounce time.Duration `koanf:"watch_debounce"`
}

// Default configuration values.
const (
	DefaultStateFile     = ".leaptype/state.db"
	DefaultOutput        = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultWatchDebounce = 200 * time.Millisecond
)

// DefaultColumns are the per-atom columns printed by perceive.
var DefaultColumns = []string{"atom", "symbol", "type"}

// KnownColumns lists every column perceive can print.
var KnownColumns = []string{
	"atom", "symbol", "type", "charge", "neighbors", "hydrogens",
	"hybridization", "aromatic", "ring", "outcome",
}

// Defaults returns a Config holding the default values.
func Defaults() *Config {
	return &Config{
		StatePath:     DefaultStateFile,
		OutputFormat:  DefaultOutput,
		Columns:       append([]string(nil), DefaultColumns...),
		WatchDebounce: DefaultWatchDebounce,
	}
}
