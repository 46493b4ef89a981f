package config

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlags() (*pflag.FlagSet, *int, *string, *bool) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	port := fs.Int("port", 8000, "")
	addr := fs.String("redis-addr", "", "")
	verbose := fs.Bool("verbose", false, "")
	return fs, port, addr, verbose
}

func TestBindEnvUsesEnvironment(t *testing.T) {
	t.Setenv("TESTAPP_PORT", "9001")
	t.Setenv("TESTAPP_REDIS_ADDR", "cache:6379")

	fs, port, addr, verbose := newFlags()
	require.NoError(t, BindEnv(fs, "TESTAPP"))
	require.NoError(t, fs.Parse(nil))

	assert.Equal(t, 9001, *port)
	assert.Equal(t, "cache:6379", *addr)
	assert.False(t, *verbose)
}

func TestBindEnvFlagsWin(t *testing.T) {
	t.Setenv("TESTAPP_PORT", "9001")

	fs, port, _, _ := newFlags()
	require.NoError(t, BindEnv(fs, "TESTAPP"))
	require.NoError(t, fs.Parse([]string{"--port", "7000"}))
	assert.Equal(t, 7000, *port)
}

func TestBindEnvNormalizesUnderscores(t *testing.T) {
	fs, _, addr, _ := newFlags()
	require.NoError(t, BindEnv(fs, "TESTAPP"))
	require.NoError(t, fs.Parse([]string{"--redis_addr", "other:6379"}))
	assert.Equal(t, "other:6379", *addr)
}

func TestBindEnvRejectsBadValue(t *testing.T) {
	t.Setenv("TESTAPP_PORT", "not-a-number")
	fs, _, _, _ := newFlags()
	err := BindEnv(fs, "TESTAPP")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TESTAPP_PORT")
}
