// Package chart renders dataset visualizations in two forms: static PNG/SVG
// images via go-chart, and interactive hover-first HTML via go-echarts. The
// inputs are pre-assembled Definitions; fitting happens upstream in the
// build layer so both renderers draw identical series.
package chart

import "github.com/scalelab/scalecharts/internal/dataset"

// Series is one scatter group, usually one dataset category.
type Series struct {
	Name   string
	Color  string // hex without '#'
	Points []dataset.Point
}

// Trend is a fitted reference line sampled at plot resolution.
type Trend struct {
	Name    string
	Color   string
	XValues []float64
	YValues []float64
}

// Annotation pins a label to a data point (anchor events like ARPANET or
// the iPhone).
type Annotation struct {
	X     float64
	Y     float64
	Label string
}

// Definition describes a complete chart independent of output format.
type Definition struct {
	Name        string // artifact base name, e.g. "adoption-timeline"
	Title       string
	Subtitle    string
	XLabel      string
	YLabel      string
	LogX        bool
	LogY        bool
	Series      []Series
	Trends      []Trend
	Annotations []Annotation
}

// Category colors shared by both renderers, matching the published palette.
var categoryColors = map[string]string{
	// Biology
	"Reptiles": "7F8C8D",
	"Birds":    "27AE60",
	"Mammals":  "3498DB",
	"Primates": "9B59B6",
	// Technology / milestones
	"Hardware":                   "E67E22",
	"Theoretical Foundation":     "7F8C8D",
	"AI Milestone":               "16A085",
	"Model Release":              "8E44AD",
	"Model/Architecture":         "9B59B6",
	"Dataset":                    "27AE60",
	"AI Winter":                  "BDC3C7",
	"Infrastructure":             "8B4513",
	"Generative":                 "FF69B4",
	"Reasoning/Agentic":          "1D8348",
	"Quantum/Future Speculative": "9B59B6",
	"Speculative":                "9B59B6",
	// Adoption
	"Software/Compiler":    "E67E22",
	"Internet/Web":         "27AE60",
	"Mobile":               "9B59B6",
	"Social/Apps":          "FF69B4",
	"Cloud/Infrastructure": "8B4513",
	"AI/Agentic":           "E74C3C",
	// Misc
	"Energy": "E67E22",
}

const defaultColor = "3498DB"

// CategoryColor returns the palette color for a category, falling back to a
// neutral blue for anything unmapped.
func CategoryColor(category string) string {
	if c, ok := categoryColors[category]; ok {
		return c
	}
	return defaultColor
}

// ImpactSize maps an impact rating to an interactive marker size in pixels.
func ImpactSize(impact string) int {
	switch impact {
	case "Transformative":
		return 18
	case "Speculative Transformative":
		return 16
	case "High", "Speculative High":
		return 12
	case "Low":
		return 7
	default: // Medium and unknown
		return 9
	}
}

// SeriesByCategory groups a table's points into one Series per category,
// preserving first-seen category order.
func SeriesByCategory(t *dataset.Table) []Series {
	var out []Series
	for _, cat := range t.Categories() {
		out = append(out, Series{
			Name:   cat,
			Color:  CategoryColor(cat),
			Points: t.FilterCategory(cat),
		})
	}
	return out
}
