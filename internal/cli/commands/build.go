package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/cli/output"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Select  string
	Formats string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build all charts or specific charts",
		Long: `Render the registered charts from their CSV datasets.

By default, builds every chart in PNG, SVG, and HTML form. Use --select
to build specific charts and --formats to restrict output types. Charts
build concurrently; one failing chart does not abort the others.`,
		Example: `  # Build all charts
  scalecharts build

  # Build specific charts
  scalecharts build --select ai-compute-timeline,adoption-timeline

  # Static outputs only
  scalecharts build --formats png,svg

  # Build as JSON for CI integration
  scalecharts build --output json`,
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Select, "select", "s", "", "Comma-separated list of charts to build")
	cmd.Flags().StringVarP(&opts.Formats, "formats", "f", "", "Comma-separated output formats (png,svg,html)")

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cmdCtx := NewCommandContext(cmd)

	builder := newBuilder(cmdCtx.Cfg, cmdCtx.Logger)
	if opts.Formats != "" {
		builder.Formats = splitCSVList(opts.Formats)
	}

	summary, err := builder.Build(cmd.Context(), splitCSVList(opts.Select))
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	switch r.Mode() {
	case output.ModeJSON:
		if err := r.JSON(summary); err != nil {
			return err
		}
	case output.ModeMarkdown:
		renderSummaryMarkdown(r, summary)
	default:
		renderSummaryText(r, summary)
	}

	if summary.Failed > 0 {
		return fmt.Errorf("%d of %d charts failed", summary.Failed, len(summary.Results))
	}
	return nil
}

func renderSummaryText(r *output.Renderer, summary *build.Summary) {
	styles := r.Styles()

	r.Println(styles.Header1.Render(fmt.Sprintf("Build %s", summary.RunID)))
	r.Println("")

	for _, res := range summary.Results {
		if res.Err != nil {
			r.Printf("  %s  %s: %v\n", styles.StatusFailed.Render("FAIL"), res.Chart, res.Err)
			continue
		}
		r.Printf("  %s  %s (%d artifacts, %s)\n",
			styles.StatusSuccess.Render("OK"), res.Chart,
			len(res.Artifacts), res.Duration.Round(time.Millisecond))
		for _, f := range res.Fits {
			r.Println(styles.Muted.Render(fmt.Sprintf(
				"        %s (%s): exponent %.3f, r2 %.3f, outliers %d",
				f.Series, f.Kind, f.Result.Exponent, f.Result.RSquared, f.Outliers)))
		}
	}

	r.Println("")
	r.Printf("%d succeeded, %d failed in %s\n",
		summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))
}

func renderSummaryMarkdown(r *output.Renderer, summary *build.Summary) {
	r.Println(output.FormatHeader(1, fmt.Sprintf("Build %s", summary.RunID)))
	r.Println("")

	for _, res := range summary.Results {
		if res.Err != nil {
			r.Println(output.FormatKeyValue(res.Chart, fmt.Sprintf("FAILED: %v", res.Err)))
			continue
		}
		r.Println(output.FormatKeyValue(res.Chart,
			fmt.Sprintf("%d artifacts in %s", len(res.Artifacts), res.Duration.Round(time.Millisecond))))
		for _, f := range res.Fits {
			r.Printf("  - %s (%s): exponent %.3f, r2 %.3f, outliers %d\n",
				f.Series, f.Kind, f.Result.Exponent, f.Result.RSquared, f.Outliers)
		}
	}

	r.Println("")
	r.Printf("**Summary**: %d succeeded, %d failed in %s\n",
		summary.Succeeded, summary.Failed, summary.Duration.Round(time.Millisecond))
}
