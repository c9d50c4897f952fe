// Package config provides configuration management for the scalecharts CLI.
package config

// Default configuration values.
const (
	DefaultDataDir = "data"
	DefaultOutDir  = "charts"
	DefaultWorkers = 4
	DefaultSigma   = 2.0
	DefaultPort    = 8383
	DefaultOutput  = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Config holds all CLI configuration options.
type Config struct {
	DataDir      string       `koanf:"data_dir"`
	OutDir       string       `koanf:"out_dir"`
	Formats      []string     `koanf:"formats"`
	Workers      int          `koanf:"workers"`
	Sigma        float64      `koanf:"sigma"`
	Verbose      bool         `koanf:"verbose"`
	OutputFormat string       `koanf:"output"`
	Serve        *ServeConfig `koanf:"serve"`
}

// ServeConfig holds configuration for the gallery server.
type ServeConfig struct {
	Port  int  `koanf:"port"`
	Watch bool `koanf:"watch"`
}

// DefaultServeConfig returns a ServeConfig with default values.
func DefaultServeConfig() *ServeConfig {
	return &ServeConfig{
		Port:  DefaultPort,
		Watch: true,
	}
}

// GetServeConfig returns the serve config with defaults applied for any
// unset values.
func (c *Config) GetServeConfig() *ServeConfig {
	if c.Serve == nil {
		return DefaultServeConfig()
	}
	s := c.Serve
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}
