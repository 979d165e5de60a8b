package atomtype

import (
	"errors"
	"fmt"
)

// ErrUnmatched is returned when no descriptor in the table accepts an atom.
var ErrUnmatched = errors.New("no atom type matches")

// ConfigError reports a malformed or contradictory type definition table.
type ConfigError struct {
	Source     string // file name or "<embedded>"
	Descriptor string // offending entry, empty for table-level problems
	Message    string
	Err        error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Descriptor != "" {
		return fmt.Sprintf("atom type table %s: %s: %s", e.Source, e.Descriptor, msg)
	}
	return fmt.Sprintf("atom type table %s: %s", e.Source, msg)
}

func (e *ConfigError) Unwrap() error { return e.Err }
