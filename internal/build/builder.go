package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scalelab/scalecharts/internal/chart"
)

// Output formats a build can emit.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatHTML = "html"
)

// AllFormats is the default format set; every chart ships both static and
// interactive forms.
var AllFormats = []string{FormatPNG, FormatSVG, FormatHTML}

// Builder renders registered charts into an output directory.
type Builder struct {
	// DataDir holds the CSV datasets.
	DataDir string
	// OutDir receives one subdirectory per chart.
	OutDir string
	// Formats restricts emitted artifact types; empty means AllFormats.
	Formats []string
	// Workers bounds build concurrency; <= 0 means one per chart.
	Workers int
	// Sigma is the outlier threshold in residual standard deviations;
	// <= 0 uses fit.DefaultOutlierSigma.
	Sigma float64
	// Logger is optional; nil discards.
	Logger *slog.Logger
}

// Artifact is one written output file.
type Artifact struct {
	Chart  string
	Format string
	Path   string
}

// Result is the outcome of building a single chart.
type Result struct {
	Chart     string
	Fits      []Fit
	Artifacts []Artifact
	Duration  time.Duration
	Err       error
}

// Summary is the outcome of a whole run.
type Summary struct {
	RunID     string
	Results   []Result
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Build renders the selected charts (all registered charts when selected is
// empty). Charts build concurrently; a failing chart is recorded in its
// Result and counted in Summary.Failed without aborting the others, matching
// the keep-going behavior of the original build driver.
func (b *Builder) Build(ctx context.Context, selected []string) (*Summary, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	charts, err := b.resolve(selected)
	if err != nil {
		return nil, err
	}

	formats := b.Formats
	if len(formats) == 0 {
		formats = AllFormats
	}
	for _, f := range formats {
		if f != FormatPNG && f != FormatSVG && f != FormatHTML {
			return nil, fmt.Errorf("unknown output format %q", f)
		}
	}

	summary := &Summary{
		RunID:   uuid.NewString(),
		Results: make([]Result, len(charts)),
	}
	start := time.Now()

	logger.Debug("starting build", "run_id", summary.RunID, "charts", len(charts), "formats", formats)

	g, gctx := errgroup.WithContext(ctx)
	if b.Workers > 0 {
		g.SetLimit(b.Workers)
	}

	for i, c := range charts {
		g.Go(func() error {
			res := b.buildOne(gctx, c, formats, logger)
			summary.Results[i] = res
			// Chart failures are reported, not fatal; only context
			// cancellation stops the group.
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range summary.Results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	summary.Duration = time.Since(start)

	logger.Debug("build finished", "run_id", summary.RunID,
		"succeeded", summary.Succeeded, "failed", summary.Failed,
		"elapsed", summary.Duration)

	return summary, nil
}

// resolve maps the selection to registry entries, failing on unknown names.
func (b *Builder) resolve(selected []string) ([]Chart, error) {
	if len(selected) == 0 {
		return Charts(), nil
	}

	sort.Strings(selected)
	var out []Chart
	for _, c := range Charts() {
		for _, name := range selected {
			if c.Name == name {
				out = append(out, c)
				break
			}
		}
	}
	if len(out) != len(selected) {
		known := make(map[string]bool)
		for _, c := range Charts() {
			known[c.Name] = true
		}
		for _, name := range selected {
			if !known[name] {
				return nil, fmt.Errorf("unknown chart %q", name)
			}
		}
	}
	return out, nil
}

func (b *Builder) buildOne(ctx context.Context, c Chart, formats []string, logger *slog.Logger) Result {
	start := time.Now()
	res := Result{Chart: c.Name}
	defer func() { res.Duration = time.Since(start) }()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}

	logger.Debug("building chart", "chart", c.Name, "dataset", c.DatasetFile)

	tbl, err := c.Load(filepath.Join(b.DataDir, c.DatasetFile))
	if err != nil {
		res.Err = fmt.Errorf("load %s: %w", c.DatasetFile, err)
		return res
	}

	def, fits, err := c.Assemble(tbl, b.Sigma)
	if err != nil {
		res.Err = err
		return res
	}
	def.Name = c.Name
	res.Fits = fits

	dir := filepath.Join(b.OutDir, c.Name)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		res.Err = fmt.Errorf("create output dir: %w", err)
		return res
	}

	for _, format := range formats {
		path := filepath.Join(dir, c.Name+"."+format)
		if err := writeArtifact(def, format, path); err != nil {
			res.Err = err
			return res
		}
		res.Artifacts = append(res.Artifacts, Artifact{Chart: c.Name, Format: format, Path: path})
		logger.Debug("wrote artifact", "chart", c.Name, "path", path)
	}

	return res
}

func writeArtifact(def *chart.Definition, format, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	switch format {
	case FormatPNG:
		err = def.RenderPNG(f)
	case FormatSVG:
		err = def.RenderSVG(f)
	case FormatHTML:
		err = def.RenderHTML(f)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
