package config

import "strings"

// Option describes one configuration key.
type Option struct {
	Key         string
	Description string
}

// EnvVar returns the environment variable that sets the key.
func (o Option) EnvVar() string {
	return EnvPrefix + strings.ToUpper(o.Key)
}

// Options lists every configuration key in documentation order.
var Options = []Option{
	{Key: "types_file", Description: "Atom type catalog; the embedded catalog is used when unset"},
	{Key: "workers", Description: "Molecules perceived in parallel by batch; 0 uses every CPU"},
	{Key: "output", Description: "Output format: auto, text, markdown or json"},
	{Key: "columns", Description: "Per-atom columns printed by perceive"},
	{Key: "verbose", Description: "Debug logging on stderr"},
	{Key: "state_path", Description: "SQLite database used by batch --save and runs"},
	{Key: "metrics", Description: "Prometheus text file written after each batch run"},
	{Key: "watch_debounce", Description: "Delay before batch --watch re-runs after the input changes"},
}

// FlagKey returns the configuration key a command line flag sets.
func FlagKey(flag string) string {
	key := strings.ReplaceAll(flag, "-", "_")
	if mapped, ok := flagKeys[key]; ok {
		return mapped
	}
	return key
}

// LookupOption returns the option for a configuration key.
func LookupOption(key string) (Option, bool) {
	for _, o := range Options {
		if o.Key == key {
			return o, true
		}
	}
	return Option{}, false
}

// DefaultValues returns the defaults of every key in the form the loader
// reads them, so durations are strings.
func DefaultValues() map[string]interface{} {
	d := Defaults()
	return map[string]interface{}{
		"types_file":     d.TypesFile,
		"workers":        d.Workers,
		"output":         d.OutputFormat,
		"verbose":        d.Verbose,
		"state_path":     d.StatePath,
		"metrics":        d.Metrics,
		"columns":        d.Columns,
		"watch_debounce": d.WatchDebounce.String(),
	}
}
