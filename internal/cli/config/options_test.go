package config

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_CoverConfig(t *testing.T) {
	defaults := DefaultValues()
	typ := reflect.TypeOf(Config{})
	require.Len(t, Options, typ.NumField())
	require.Len(t, defaults, typ.NumField())

	for i := 0; i < typ.NumField(); i++ {
		key := typ.Field(i).Tag.Get("koanf")
		o, ok := LookupOption(key)
		require.True(t, ok, "no option for %s", key)
		assert.NotEmpty(t, o.Description, key)
		assert.Contains(t, defaults, key)
	}
}

func TestOption_EnvVar(t *testing.T) {
	o, ok := LookupOption("state_path")
	require.True(t, ok)
	assert.Equal(t, "LEAPTYPE_STATE_PATH", o.EnvVar())

	_, ok = LookupOption("nope")
	assert.False(t, ok)
}

func TestFlagKey(t *testing.T) {
	assert.Equal(t, "state_path", FlagKey("state"))
	assert.Equal(t, "types_file", FlagKey("types"))
	assert.Equal(t, "watch_debounce", FlagKey("watch-debounce"))
	assert.Equal(t, "workers", FlagKey("workers"))
}
