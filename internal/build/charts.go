// Package build turns registered chart definitions into rendered artifacts.
// It is the replacement for the original per-dataset scripts plus their
// build-all driver: each chart names its dataset, fits its trend models, and
// hands assembled series to the renderers.
package build

import (
	"fmt"
	"math"

	"github.com/scalelab/scalecharts/internal/chart"
	"github.com/scalelab/scalecharts/internal/dataset"
	"github.com/scalelab/scalecharts/internal/fit"
)

// FitKind tags which model a summary came from.
type FitKind string

const (
	FitPowerLaw  FitKind = "power-law"
	FitLogLinear FitKind = "log-linear"
)

// Fit reports one fitted model for a chart: the series it describes, the
// recovered parameters, and how many samples diverge beyond the outlier
// threshold.
type Fit struct {
	Series   string
	Kind     FitKind
	Result   fit.Result
	Outliers int
}

// Chart is one registered visualization. Assemble receives the outlier
// threshold in residual standard deviations; <= 0 falls back to
// fit.DefaultOutlierSigma.
type Chart struct {
	Name        string
	Description string
	DatasetFile string
	Load        func(path string) (*dataset.Table, error)
	Assemble    func(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error)
}

// Charts returns the registry in build order.
func Charts() []Chart {
	return []Chart{
		{
			Name:        "ai-compute-timeline",
			Description: "Training FLOPs for key AI milestones, 1904-2026",
			DatasetFile: "ai_milestones.csv",
			Load:        dataset.LoadAIMilestones,
			Assemble:    assembleAITimeline,
		},
		{
			Name:        "adoption-timeline",
			Description: "Time to ~50M users per technology, 1957-2026",
			DatasetFile: "tech_adoption.csv",
			Load:        dataset.LoadTechAdoption,
			Assemble:    assembleAdoptionTimeline,
		},
		{
			Name:        "energetic-scaling-bio",
			Description: "Neural efficiency vs body size across clades",
			DatasetFile: "neuron_scaling.csv",
			Load:        dataset.LoadNeuronScaling,
			Assemble:    assembleEnergeticBio,
		},
		{
			Name:        "energetic-scaling-tech",
			Description: "Compute per dollar vs time (Kurzweil trend)",
			DatasetFile: "compute_efficiency.csv",
			Load:        dataset.LoadComputeEfficiency,
			Assemble:    assembleEnergeticTech,
		},
		{
			Name:        "civilization-scaling",
			Description: "Urban output vs city population",
			DatasetFile: "city_scaling.csv",
			Load:        dataset.LoadCityScaling,
			Assemble:    assembleCivilization,
		},
		{
			Name:        "energy-leverage",
			Description: "Energy leverage per person through history",
			DatasetFile: "energy_leverage.csv",
			Load:        dataset.LoadEnergyLeverage,
			Assemble:    assembleEnergyLeverage,
		},
	}
}

// Lookup finds a registered chart by name.
func Lookup(name string) (Chart, bool) {
	for _, c := range Charts() {
		if c.Name == name {
			return c, true
		}
	}
	return Chart{}, false
}

func assembleAITimeline(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "History of Compute & Intelligence",
		Subtitle: "Training FLOPs for key AI milestones; log scale makes exponential growth a straight line",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	// Moore's-law reference: doubling every two years from a 1965 anchor.
	def.Trends = append(def.Trends, chart.TrendLine(
		"Moore's Law trajectory", chart.CategoryColor("Hardware"),
		func(x float64) float64 { return 1e6 * math.Pow(2, (x-1965)/2) },
		1965, 2005, 60, false,
	))

	// Fit the deep-learning era, where compute figures are real rather than
	// proxies.
	var modern []fit.Sample
	for _, p := range tbl.Points {
		if p.X >= 2012 {
			modern = append(modern, fit.Sample{X: p.X, Y: p.Y})
		}
	}
	fits, trend, err := logLinearTrend("Deep-learning era trend", "E74C3C", modern, sigma, 2012, 2027)
	if err != nil {
		return nil, nil, fmt.Errorf("ai-compute-timeline: %w", err)
	}
	def.Trends = append(def.Trends, trend)

	def.Annotations = anchorAnnotations(tbl, "ENIAC", "AlexNet", "GPT-3", "GPT-4")
	return def, fits, nil
}

func assembleAdoptionTimeline(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "Adoption Timeline: Time to ~50M Users",
		Subtitle: "Each generation of technology reaches mass adoption faster",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	fits, trend, err := logLinearTrend("Adoption trend", "E67E22", tbl.Samples(), sigma, 1957, 2030)
	if err != nil {
		return nil, nil, fmt.Errorf("adoption-timeline: %w", err)
	}
	def.Trends = append(def.Trends, trend)

	def.Annotations = anchorAnnotations(tbl, "ARPANET", "WWW", "iPhone", "ChatGPT")
	return def, fits, nil
}

func assembleEnergeticBio(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "Biological Allometry: Neural Efficiency vs Body Size",
		Subtitle: "Neurons per kg body mass; straight lines on log-log axes are power laws",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogX:     true,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	var fits []Fit

	// Per-clade power-law fits, as the source plot draws for mammals and
	// primates.
	for _, clade := range []string{"Mammals", "Primates"} {
		points := tbl.FilterCategory(clade)
		samples := make([]fit.Sample, len(points))
		for i, p := range points {
			samples[i] = fit.Sample{X: p.X, Y: p.Y}
		}

		r, err := fit.PowerLaw(samples)
		if err != nil {
			return nil, nil, fmt.Errorf("energetic-scaling-bio %s: %w", clade, err)
		}
		flags, err := fit.Outliers(samples, r, sigma)
		if err != nil {
			return nil, nil, fmt.Errorf("energetic-scaling-bio %s: %w", clade, err)
		}

		fits = append(fits, Fit{Series: clade, Kind: FitPowerLaw, Result: r, Outliers: countFlags(flags)})
		def.Trends = append(def.Trends, chart.TrendLine(
			fmt.Sprintf("%s (slope=%.2f)", clade, r.Exponent),
			chart.CategoryColor(clade), r.PredictY,
			minX(points)/2, maxX(points)*2, 80, true,
		))
	}

	// Reference slope from the source figure.
	def.Trends = append(def.Trends, chart.TrendLine(
		"Reference slope -0.3", "7F8C8D",
		func(x float64) float64 { return 5e9 * math.Pow(x, -0.3) },
		0.001, 10000, 80, true,
	))

	def.Annotations = anchorAnnotations(tbl, "Human", "Elephant", "Goldcrest", "Crocodile")
	return def, fits, nil
}

func assembleEnergeticTech(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "Tech Scaling: Compute Efficiency vs Time",
		Subtitle: "Compute per dollar mirrors Kurzweil's exponential",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	r, err := fit.LogLinear(tbl.Samples())
	if err != nil {
		return nil, nil, fmt.Errorf("energetic-scaling-tech: %w", err)
	}
	flags, err := fit.Outliers(tbl.Samples(), r, sigma)
	if err != nil {
		return nil, nil, fmt.Errorf("energetic-scaling-tech: %w", err)
	}

	fits := []Fit{{Series: "Hardware", Kind: FitLogLinear, Result: r, Outliers: countFlags(flags)}}
	def.Trends = append(def.Trends, chart.TrendLine(
		fmt.Sprintf("Kurzweil trend (~%.1fx/year)", r.FoldPerStep()),
		"E67E22", r.PredictY, 1935, 2030, 60, false,
	))

	def.Annotations = anchorAnnotations(tbl, "ENIAC", "Intel 4004", "NVIDIA B200")
	return def, fits, nil
}

func assembleCivilization(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "Civilization Scaling: Urban Output vs Population",
		Subtitle: "Gross metropolitan product scales superlinearly with city size",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogX:     true,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	samples := tbl.Samples()
	r, err := fit.PowerLaw(samples)
	if err != nil {
		return nil, nil, fmt.Errorf("civilization-scaling: %w", err)
	}
	flags, err := fit.Outliers(samples, r, sigma)
	if err != nil {
		return nil, nil, fmt.Errorf("civilization-scaling: %w", err)
	}

	fits := []Fit{{Series: "All cities", Kind: FitPowerLaw, Result: r, Outliers: countFlags(flags)}}
	def.Trends = append(def.Trends, chart.TrendLine(
		fmt.Sprintf("Power law (b=%.2f)", r.Exponent),
		"E74C3C", r.PredictY,
		minX(tbl.Points)/2, maxX(tbl.Points)*2, 80, true,
	))

	def.Annotations = anchorAnnotations(tbl, "Tokyo", "Singapore", "Lagos")
	return def, fits, nil
}

func assembleEnergyLeverage(tbl *dataset.Table, sigma float64) (*chart.Definition, []Fit, error) {
	def := &chart.Definition{
		Name:     tbl.Name,
		Title:    "Energy Leverage per Person",
		Subtitle: "Primary power available per capita, from fire to the grid",
		XLabel:   tbl.XLabel,
		YLabel:   tbl.YLabel,
		LogY:     true,
		Series:   chart.SeriesByCategory(tbl),
	}

	// The industrial-era points carry the trend; the BCE points anchor the
	// baseline but precede sustained growth.
	var modern []fit.Sample
	for _, p := range tbl.Points {
		if p.X >= 1700 {
			modern = append(modern, fit.Sample{X: p.X, Y: p.Y})
		}
	}
	fits, trend, err := logLinearTrend("Industrial trend", "E67E22", modern, sigma, 1700, 2030)
	if err != nil {
		return nil, nil, fmt.Errorf("energy-leverage: %w", err)
	}
	def.Trends = append(def.Trends, trend)

	def.Annotations = anchorAnnotations(tbl, "Hunter-gatherer", "Early industrial", "Electrified AI era")
	return def, fits, nil
}

// logLinearTrend fits a time series and returns both the reportable fit and
// its sampled trend line.
func logLinearTrend(name, color string, samples []fit.Sample, sigma, xMin, xMax float64) ([]Fit, chart.Trend, error) {
	r, err := fit.LogLinear(samples)
	if err != nil {
		return nil, chart.Trend{}, err
	}
	flags, err := fit.Outliers(samples, r, sigma)
	if err != nil {
		return nil, chart.Trend{}, err
	}

	fits := []Fit{{Series: name, Kind: FitLogLinear, Result: r, Outliers: countFlags(flags)}}
	return fits, chart.TrendLine(name, color, r.PredictY, xMin, xMax, 60, false), nil
}

// anchorAnnotations labels the named points, skipping any absent from the
// table.
func anchorAnnotations(tbl *dataset.Table, labels ...string) []chart.Annotation {
	var out []chart.Annotation
	for _, want := range labels {
		for _, p := range tbl.Points {
			if p.Label == want {
				out = append(out, chart.Annotation{X: p.X, Y: p.Y, Label: p.Label})
				break
			}
		}
	}
	return out
}

func countFlags(flags []bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

func minX(points []dataset.Point) float64 {
	m := points[0].X
	for _, p := range points[1:] {
		if p.X < m {
			m = p.X
		}
	}
	return m
}

func maxX(points []dataset.Point) float64 {
	m := points[0].X
	for _, p := range points[1:] {
		if p.X > m {
			m = p.X
		}
	}
	return m
}
