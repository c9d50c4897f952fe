package chart

import (
	"fmt"
	"io"
	"math"

	chartlib "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	staticWidth  = 1280
	staticHeight = 800
)

// RenderPNG writes the definition as a raster image.
func (d *Definition) RenderPNG(w io.Writer) error {
	ch, err := d.build()
	if err != nil {
		return err
	}
	if err := ch.Render(chartlib.PNG, w); err != nil {
		return fmt.Errorf("failed to render %s as PNG: %w", d.Name, err)
	}
	return nil
}

// RenderSVG writes the definition as a vector image.
func (d *Definition) RenderSVG(w io.Writer) error {
	ch, err := d.build()
	if err != nil {
		return err
	}
	if err := ch.Render(chartlib.SVG, w); err != nil {
		return fmt.Errorf("failed to render %s as SVG: %w", d.Name, err)
	}
	return nil
}

// build assembles the go-chart model shared by both static formats.
func (d *Definition) build() (*chartlib.Chart, error) {
	if len(d.Series) == 0 {
		return nil, fmt.Errorf("chart %s has no series", d.Name)
	}

	var series []chartlib.Series

	for _, t := range d.Trends {
		series = append(series, chartlib.ContinuousSeries{
			Name:    t.Name,
			XValues: t.XValues,
			YValues: t.YValues,
			Style: chartlib.Style{
				StrokeWidth:     2,
				StrokeDashArray: []float64{5, 5},
				StrokeColor:     drawing.ColorFromHex(t.Color),
			},
		})
	}

	for _, s := range d.Series {
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.X
			ys[i] = p.Y
		}
		series = append(series, chartlib.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chartlib.Style{
				StrokeWidth: chartlib.Disabled,
				DotWidth:    5,
				DotColor:    drawing.ColorFromHex(s.Color),
			},
		})
	}

	if len(d.Annotations) > 0 {
		values := make([]chartlib.Value2, len(d.Annotations))
		for i, a := range d.Annotations {
			values[i] = chartlib.Value2{XValue: a.X, YValue: a.Y, Label: a.Label}
		}
		series = append(series, chartlib.AnnotationSeries{
			Annotations: values,
			Style: chartlib.Style{
				StrokeColor: drawing.ColorFromHex("666666"),
				FontSize:    9,
			},
		})
	}

	ch := &chartlib.Chart{
		Title:  d.Title,
		Width:  staticWidth,
		Height: staticHeight,
		Background: chartlib.Style{
			Padding: chartlib.Box{Top: 48, Left: 24, Right: 24, Bottom: 24},
		},
		XAxis: chartlib.XAxis{
			Name: d.XLabel,
		},
		YAxis: chartlib.YAxis{
			Name: d.YLabel,
		},
		Series: series,
	}

	if d.LogX {
		ch.XAxis.Range = &chartlib.LogarithmicRange{}
	}
	if d.LogY {
		ch.YAxis.Range = &chartlib.LogarithmicRange{}
	}

	ch.Elements = []chartlib.Renderable{chartlib.Legend(ch)}
	return ch, nil
}

// TrendLine samples a fitted model over [xMin, xMax] at n points, spacing
// them geometrically for log-scaled x axes so the line is smooth on the
// rendered scale.
func TrendLine(name, color string, predict func(float64) float64, xMin, xMax float64, n int, logX bool) Trend {
	if n < 2 {
		n = 2
	}
	t := Trend{
		Name:    name,
		Color:   color,
		XValues: make([]float64, n),
		YValues: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		frac := float64(i) / float64(n-1)
		var x float64
		if logX {
			x = math.Pow(10, math.Log10(xMin)+frac*(math.Log10(xMax)-math.Log10(xMin)))
		} else {
			x = xMin + frac*(xMax-xMin)
		}
		t.XValues[i] = x
		t.YValues[i] = predict(x)
	}
	return t
}
