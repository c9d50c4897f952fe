package config

import (
	"fmt"
	"strings"

	"github.com/scalelab/scalecharts/internal/build"
)

// Validate checks a loaded configuration for values the builder would
// reject later with a less helpful error.
func Validate(cfg *Config) error {
	for _, f := range cfg.Formats {
		switch f {
		case build.FormatPNG, build.FormatSVG, build.FormatHTML:
		default:
			return fmt.Errorf("unknown output format %q (expected one of %s)",
				f, strings.Join(build.AllFormats, ", "))
		}
	}
	if cfg.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", cfg.Workers)
	}
	if cfg.Sigma < 0 {
		return fmt.Errorf("sigma must be >= 0, got %g", cfg.Sigma)
	}
	switch cfg.OutputFormat {
	case "", "auto", "text", "markdown", "md", "json":
	default:
		return fmt.Errorf("unknown output mode %q (expected auto, text, markdown, or json)", cfg.OutputFormat)
	}
	return nil
}
