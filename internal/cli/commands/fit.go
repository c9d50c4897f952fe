package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/cli/output"
	"github.com/scalelab/scalecharts/internal/dataset"
	"github.com/scalelab/scalecharts/internal/fit"
)

// FitOptions holds options for the fit command.
type FitOptions struct {
	Category string
	Kind     string
	Sigma    float64
}

// NewFitCommand creates the fit command.
func NewFitCommand() *cobra.Command {
	opts := &FitOptions{}

	cmd := &cobra.Command{
		Use:   "fit <chart>",
		Short: "Fit a chart's dataset and report parameters and outliers",
		Long: `Fit a power-law or log-linear model to a chart's dataset.

Prints the recovered coefficient, exponent, and r-squared value, plus
every sample whose residual exceeds the outlier threshold (--sigma
standard deviations of the log-space residuals).`,
		Example: `  # Power-law fit over the whole dataset
  scalecharts fit energetic-scaling-bio

  # Fit one category only
  scalecharts fit energetic-scaling-bio --category Mammals

  # Log-linear fit for time series, flag at 1.5 sigma
  scalecharts fit adoption-timeline --kind log-linear --sigma 1.5`,
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			var names []string
			for _, c := range build.Charts() {
				names = append(names, c.Name)
			}
			return names, cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Fit only samples in this category")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", string(build.FitPowerLaw),
		"Fit kind: power-law or log-linear")
	cmd.Flags().Float64Var(&opts.Sigma, "sigma", 0,
		"Outlier threshold in standard deviations of log residuals (default from config)")

	return cmd
}

// fitReport is the JSON shape of a fit command result.
type fitReport struct {
	Chart       string   `json:"chart"`
	Category    string   `json:"category,omitempty"`
	Kind        string   `json:"kind"`
	Samples     int      `json:"samples"`
	Coefficient float64  `json:"coefficient"`
	Intercept   float64  `json:"intercept"`
	Exponent    float64  `json:"exponent"`
	RSquared    float64  `json:"r_squared"`
	FoldPerStep float64  `json:"fold_per_step,omitempty"`
	Sigma       float64  `json:"sigma"`
	Outliers    []string `json:"outliers"`
}

func runFit(cmd *cobra.Command, name string, opts *FitOptions) error {
	cmdCtx := NewCommandContext(cmd)

	if !cmd.Flags().Changed("sigma") {
		opts.Sigma = cmdCtx.Cfg.Sigma
	}
	if opts.Sigma <= 0 {
		opts.Sigma = fit.DefaultOutlierSigma
	}

	c, ok := build.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown chart %q (see 'scalecharts list')", name)
	}

	tbl, err := c.Load(filepath.Join(cmdCtx.Cfg.DataDir, c.DatasetFile))
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	points := tbl.Points
	if opts.Category != "" {
		points = tbl.FilterCategory(opts.Category)
		if len(points) == 0 {
			return fmt.Errorf("no samples in category %q (have: %s)",
				opts.Category, strings.Join(tbl.Categories(), ", "))
		}
	}

	samples := make([]fit.Sample, len(points))
	for i, p := range points {
		samples[i] = fit.Sample{X: p.X, Y: p.Y}
	}

	var res fit.Result
	switch build.FitKind(opts.Kind) {
	case build.FitPowerLaw:
		res, err = fit.PowerLaw(samples)
	case build.FitLogLinear:
		res, err = fit.LogLinear(samples)
	default:
		return fmt.Errorf("unknown fit kind %q (expected %s or %s)",
			opts.Kind, build.FitPowerLaw, build.FitLogLinear)
	}
	if err != nil {
		return fmt.Errorf("fit failed: %w", err)
	}

	flags, err := fit.Outliers(samples, res, opts.Sigma)
	if err != nil {
		return fmt.Errorf("outlier detection failed: %w", err)
	}

	report := fitReport{
		Chart:       name,
		Category:    opts.Category,
		Kind:        opts.Kind,
		Samples:     len(samples),
		Coefficient: res.Coefficient,
		Intercept:   res.Intercept,
		Exponent:    res.Exponent,
		RSquared:    res.RSquared,
		Sigma:       opts.Sigma,
		Outliers:    outlierLabels(points, flags),
	}
	if build.FitKind(opts.Kind) == build.FitLogLinear {
		report.FoldPerStep = res.FoldPerStep()
	}

	r := cmdCtx.Renderer
	if r.Mode() == output.ModeJSON {
		return r.JSON(report)
	}
	renderFitReport(r, &report)
	return nil
}

func outlierLabels(points []dataset.Point, flags []bool) []string {
	labels := []string{}
	for i, flagged := range flags {
		if flagged {
			labels = append(labels, points[i].Label)
		}
	}
	return labels
}

func renderFitReport(r *output.Renderer, report *fitReport) {
	styles := r.Styles()

	title := report.Chart
	if report.Category != "" {
		title += " / " + report.Category
	}
	r.Println(styles.Header1.Render(title))
	r.Println("")
	r.Printf("  %s: %s (%d samples)\n", styles.Bold.Render("Fit"), report.Kind, report.Samples)
	if report.Coefficient != 0 {
		r.Printf("  %s: %.6g\n", styles.Bold.Render("Coefficient"), report.Coefficient)
	}
	r.Printf("  %s: %.4f\n", styles.Bold.Render("Intercept"), report.Intercept)
	r.Printf("  %s: %.4f\n", styles.Bold.Render("Exponent"), report.Exponent)
	r.Printf("  %s: %.4f\n", styles.Bold.Render("R-squared"), report.RSquared)
	if report.FoldPerStep != 0 {
		r.Printf("  %s: %.3fx\n", styles.Bold.Render("Fold per step"), report.FoldPerStep)
	}

	r.Println("")
	if len(report.Outliers) == 0 {
		r.Println(styles.Muted.Render(fmt.Sprintf("No outliers beyond %.1f sigma", report.Sigma)))
		return
	}
	r.Println(styles.Warning.Render(fmt.Sprintf("Outliers beyond %.1f sigma:", report.Sigma)))
	for _, label := range report.Outliers {
		r.Printf("  - %s\n", label)
	}
}
