package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalelab/scalecharts/internal/build"
)

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultDataDir, cfg.DataDir)
	assert.Equal(t, DefaultOutDir, cfg.OutDir)
	assert.Equal(t, build.AllFormats, cfg.Formats)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.InDelta(t, DefaultSigma, cfg.Sigma, 1e-12)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	yaml := `
data_dir: datasets
out_dir: rendered
formats:
  - svg
workers: 2
sigma: 1.5
serve:
  port: 9000
  watch: false
`
	require.NoError(t, os.WriteFile("scalecharts.yaml", []byte(yaml), 0o600))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	// Relative paths resolve against the config file's directory.
	assert.Equal(t, filepath.Join(dir, "datasets"), cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "rendered"), cfg.OutDir)
	assert.Equal(t, []string{"svg"}, cfg.Formats)
	assert.Equal(t, 2, cfg.Workers)
	assert.InDelta(t, 1.5, cfg.Sigma, 1e-12)

	serveCfg := cfg.GetServeConfig()
	assert.Equal(t, 9000, serveCfg.Port)
	assert.False(t, serveCfg.Watch)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	require.NoError(t, os.WriteFile("scalecharts.yaml", []byte("workers: 2\n"), 0o600))
	t.Setenv("SCALECHARTS_WORKERS", "8")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Workers)
}

func TestLoadConfigFlagsOverrideEnv(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("SCALECHARTS_WORKERS", "8")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 0, "")
	require.NoError(t, flags.Parse([]string{"--workers", "3"}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Workers)
}

func TestLoadConfigUnchangedFlagIgnored(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("workers", 99, "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sigma: 3.0\n"), 0o600))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, cfg.Sigma, 1e-12)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfigMissingExplicitFile(t *testing.T) {
	ResetConfig()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"bad format", Config{Formats: []string{"gif"}}, "unknown output format"},
		{"negative workers", Config{Workers: -1}, "workers must be"},
		{"negative sigma", Config{Sigma: -0.5}, "sigma must be"},
		{"bad output mode", Config{OutputFormat: "xml"}, "unknown output mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetServeConfigDefaults(t *testing.T) {
	cfg := &Config{}
	s := cfg.GetServeConfig()
	assert.Equal(t, DefaultPort, s.Port)
	assert.True(t, s.Watch)

	cfg = &Config{Serve: &ServeConfig{Watch: true}}
	s = cfg.GetServeConfig()
	assert.Equal(t, DefaultPort, s.Port)
}
