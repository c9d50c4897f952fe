package chart

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderHTML writes the definition as a self-contained interactive chart:
// hover tooltips carry the point's label, coordinates, and notes, which is
// where the detail lives that the static exports deliberately omit.
func (d *Definition) RenderHTML(w io.Writer) error {
	if len(d.Series) == 0 {
		return fmt.Errorf("chart %s has no series", d.Name)
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: d.Title,
			Width:     "1150px",
			Height:    "720px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    d.Title,
			Subtitle: d.Subtitle,
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "item",
		}),
		charts.WithLegendOpts(opts.Legend{
			Show: opts.Bool(true),
			Top:  "bottom",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name: d.XLabel,
			Type: axisType(d.LogX),
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name: d.YLabel,
			Type: axisType(d.LogY),
		}),
	)

	for _, s := range d.Series {
		data := make([]opts.ScatterData, len(s.Points))
		for i, p := range s.Points {
			name := p.Label
			if p.Notes != "" {
				name = fmt.Sprintf("%s — %s", p.Label, p.Notes)
			}
			data[i] = opts.ScatterData{
				Name:       name,
				Value:      []interface{}{p.X, p.Y},
				SymbolSize: ImpactSize(p.Impact),
			}
		}
		scatter.AddSeries(s.Name, data, charts.WithItemStyleOpts(opts.ItemStyle{
			Color: "#" + s.Color,
		}))
	}

	if len(d.Trends) > 0 {
		line := charts.NewLine()
		for _, t := range d.Trends {
			data := make([]opts.LineData, len(t.XValues))
			for i := range t.XValues {
				data[i] = opts.LineData{Value: []interface{}{t.XValues[i], t.YValues[i]}}
			}
			line.AddSeries(t.Name, data,
				charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true), ShowSymbol: opts.Bool(false)}),
				charts.WithLineStyleOpts(opts.LineStyle{Color: "#" + t.Color, Type: "dashed"}),
			)
		}
		scatter.Overlap(line)
	}

	if err := scatter.Render(w); err != nil {
		return fmt.Errorf("failed to render %s as HTML: %w", d.Name, err)
	}
	return nil
}

func axisType(log bool) string {
	if log {
		return "log"
	}
	return "value"
}
