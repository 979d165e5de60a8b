package atomtype

import (
	_ "embed"
	"sync"
)

// EmbeddedSource names the built-in catalog in errors and listings.
const EmbeddedSource = "<embedded>"

//go:embed catalog/default.yaml
var defaultCatalog []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the built-in table. It is parsed once per process and
// shared by every caller.
func Default() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Parse(defaultCatalog, EmbeddedSource)
	})
	return defaultTable, defaultErr
}

// MustDefault is like Default but panics if the built-in table is invalid.
func MustDefault() *Table {
	t, err := Default()
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultCatalog returns the raw YAML of the built-in table.
func DefaultCatalog() []byte {
	out := make([]byte, len(defaultCatalog))
	copy(out, defaultCatalog)
	return out
}
