// Package commands implements the scalecharts CLI subcommands.
package commands

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/cli/config"
	"github.com/scalelab/scalecharts/internal/cli/output"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the command's config
// and context logger.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.OutputFormat)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to
// environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	cfg := &config.Config{
		DataDir:      getEnvOrDefault("SCALECHARTS_DATA_DIR", config.DefaultDataDir),
		OutDir:       getEnvOrDefault("SCALECHARTS_OUT_DIR", config.DefaultOutDir),
		Formats:      build.AllFormats,
		Workers:      config.DefaultWorkers,
		Sigma:        config.DefaultSigma,
		Verbose:      os.Getenv("SCALECHARTS_VERBOSE") == "true",
		OutputFormat: getEnvOrDefault("SCALECHARTS_OUTPUT", config.DefaultOutput),
	}
	if w := os.Getenv("SCALECHARTS_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil {
			cfg.Workers = n
		}
	}
	if f := os.Getenv("SCALECHARTS_FORMATS"); f != "" {
		cfg.Formats = splitCSVList(f)
	}
	if s := os.Getenv("SCALECHARTS_SIGMA"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			cfg.Sigma = v
		}
	}
	return cfg
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// newBuilder constructs a chart builder from configuration.
func newBuilder(cfg *config.Config, logger *slog.Logger) *build.Builder {
	return &build.Builder{
		DataDir: cfg.DataDir,
		OutDir:  cfg.OutDir,
		Formats: cfg.Formats,
		Workers: cfg.Workers,
		Sigma:   cfg.Sigma,
		Logger:  logger,
	}
}

// splitCSVList splits a comma-separated flag value into trimmed parts.
func splitCSVList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
