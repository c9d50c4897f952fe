package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/build"
	"github.com/scalelab/scalecharts/internal/cli/output"
)

// NewListCommand creates the list command.
func NewListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered charts and their datasets",
		Long: `List every registered chart with its dataset file and description.

Output adapts to environment:
  - Terminal: styled table
  - Piped/Scripted: markdown (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # List all charts
  scalecharts list

  # List charts as JSON
  scalecharts list --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd)
		},
	}
}

// chartInfo is the JSON shape of one registry entry.
type chartInfo struct {
	Name        string `json:"name"`
	Dataset     string `json:"dataset"`
	Description string `json:"description"`
}

func runList(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer
	charts := build.Charts()

	switch r.Mode() {
	case output.ModeJSON:
		infos := make([]chartInfo, 0, len(charts))
		for _, c := range charts {
			infos = append(infos, chartInfo{
				Name:        c.Name,
				Dataset:     c.DatasetFile,
				Description: c.Description,
			})
		}
		return r.JSON(infos)

	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Charts"))
		r.Println("")
		for _, c := range charts {
			r.Println(output.FormatKeyValue(c.Name, c.Description+" ("+c.DatasetFile+")"))
		}
		return nil

	default:
		t := table.NewWriter()
		t.SetOutputMirror(r.Writer())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Chart", "Dataset", "Description"})
		for _, c := range charts {
			t.AppendRow(table.Row{c.Name, c.DatasetFile, c.Description})
		}
		t.Render()
		return nil
	}
}
