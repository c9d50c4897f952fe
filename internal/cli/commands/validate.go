package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/cli/output"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate every dataset without writing artifacts",
		Long: `Load every registered dataset and run its chart assembly.

This checks that CSV files parse, required columns are present, values
are positive where the fit demands it, and every fit is computable. No
output files are written.`,
		Example: `  # Validate all datasets
  scalecharts validate

  # Machine-readable report
  scalecharts validate --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd)
		},
	}
}

// validation is the JSON shape of one chart's validation result.
type validation struct {
	Chart   string `json:"chart"`
	Dataset string `json:"dataset"`
	Samples int    `json:"samples"`
	Fits    int    `json:"fits"`
	Error   string `json:"error,omitempty"`
}

func runValidate(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	var results []validation
	failed := 0

	for _, c := range build.Charts() {
		v := validation{Chart: c.Name, Dataset: c.DatasetFile}

		tbl, err := c.Load(filepath.Join(cmdCtx.Cfg.DataDir, c.DatasetFile))
		if err != nil {
			v.Error = err.Error()
			failed++
			results = append(results, v)
			continue
		}
		v.Samples = len(tbl.Points)

		_, fits, err := c.Assemble(tbl, cmdCtx.Cfg.Sigma)
		if err != nil {
			v.Error = err.Error()
			failed++
			results = append(results, v)
			continue
		}
		v.Fits = len(fits)
		results = append(results, v)
	}

	switch r.Mode() {
	case output.ModeJSON:
		if err := r.JSON(results); err != nil {
			return err
		}
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Dataset validation"))
		r.Println("")
		for _, v := range results {
			if v.Error != "" {
				r.Println(output.FormatKeyValue(v.Chart, "FAILED: "+v.Error))
				continue
			}
			r.Println(output.FormatKeyValue(v.Chart,
				fmt.Sprintf("%d samples, %d fits", v.Samples, v.Fits)))
		}
	default:
		styles := r.Styles()
		for _, v := range results {
			if v.Error != "" {
				r.Printf("  %s  %s: %s\n", styles.StatusFailed.Render("FAIL"), v.Chart, v.Error)
				continue
			}
			r.Printf("  %s  %s (%d samples, %d fits)\n",
				styles.StatusSuccess.Render("OK"), v.Chart, v.Samples, v.Fits)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d datasets failed validation", failed, len(results))
	}
	return nil
}
