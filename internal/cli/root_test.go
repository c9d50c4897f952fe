package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()

	assert.Equal(t, "scalecharts", cmd.Use)
	assert.Equal(t, Version, cmd.Version)

	want := []string{"build", "list", "fit", "validate", "query", "serve", "init", "version", "completion"}
	have := map[string]bool{}
	for _, sub := range cmd.Commands() {
		have[sub.Name()] = true
	}
	for _, name := range want {
		assert.True(t, have[name], "subcommand %q should be registered", name)
	}

	for _, flag := range []string{"config", "data-dir", "out-dir", "workers", "sigma", "verbose", "output"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "persistent flag %q should exist", flag)
	}
}

func TestRootCmdVersionFlag(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "scalecharts")
	assert.Contains(t, buf.String(), Version)
}

func TestRootCmdRejectsBadConfigValue(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"list", "--output", "xml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output mode")
}
