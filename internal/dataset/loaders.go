package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/scalelab/scalecharts/internal/fit"
)

// LoadAIMilestones reads the AI compute timeline table
// (Year, Event, Category, Compute_FLOPs, Parameters, Impact).
// Milestones without a parseable compute figure get an era proxy value so
// the timeline stays continuous; Category may hold several entries separated
// by ';', of which the first is primary.
func LoadAIMilestones(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "Year", "Event", "Category", "Compute_FLOPs", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "ai-compute-timeline", XLabel: "Year", YLabel: "Training Compute (FLOPs)"}
	for i, row := range rows {
		year, err := strconv.Atoi(strings.TrimSpace(row[idx["Year"]]))
		if err != nil {
			return nil, fmt.Errorf("%s row %d: bad year %q: %w", path, i+1, row[idx["Year"]], fit.ErrInvalidInput)
		}

		flops, ok := ParseApproxValue(row[idx["Compute_FLOPs"]])
		if !ok {
			flops = ProxyCompute(year)
		}

		impact := strings.TrimSpace(row[idx["Impact"]])
		if impact == "" {
			impact = "Medium"
		}

		t.Points = append(t.Points, Point{
			Label:    strings.TrimSpace(row[idx["Event"]]),
			X:        float64(year),
			Y:        flops,
			Category: primaryCategory(row[idx["Category"]]),
			Impact:   impact,
		})
	}
	return t, nil
}

// primaryCategory picks the first of potentially several ';'-separated
// categories.
func primaryCategory(s string) string {
	if s == "" {
		return "Other"
	}
	return strings.TrimSpace(strings.Split(s, ";")[0])
}

// LoadTechAdoption reads the technology adoption table
// (Year, Technology, Category, Days_to_Adoption, Impact, Notes).
func LoadTechAdoption(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "Year", "Technology", "Category", "Days_to_Adoption", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "adoption-timeline", XLabel: "Year", YLabel: "Days to ~50M Users"}
	for i, row := range rows {
		p, err := numericPoint(row, idx, "Technology", "Year", "Days_to_Adoption")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if p.Y <= 0 {
			return nil, fmt.Errorf("%s row %d: non-positive adoption time %g: %w", path, i+1, p.Y, fit.ErrInvalidInput)
		}
		p.Category = strings.TrimSpace(row[idx["Category"]])
		p.Impact = strings.TrimSpace(row[idx["Impact"]])
		if n, ok := idx["Notes"]; ok && n < len(row) {
			p.Notes = row[n]
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

// LoadNeuronScaling reads the biological allometry table
// (Entity, Body_Mass_kg, Total_Neurons, Neurons_per_kg, Group, Impact, Notes).
// Both axes feed a log-log fit, so non-positive values are rejected here.
func LoadNeuronScaling(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "Entity", "Body_Mass_kg", "Neurons_per_kg", "Group", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "neuron-scaling", XLabel: "Body Mass (kg)", YLabel: "Neurons per kg Body Mass"}
	for i, row := range rows {
		p, err := numericPoint(row, idx, "Entity", "Body_Mass_kg", "Neurons_per_kg")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if p.X <= 0 || p.Y <= 0 {
			return nil, fmt.Errorf("%s row %d: non-positive value (%g, %g): %w", path, i+1, p.X, p.Y, fit.ErrInvalidInput)
		}
		p.Category = strings.TrimSpace(row[idx["Group"]])
		p.Impact = strings.TrimSpace(row[idx["Impact"]])
		if n, ok := idx["Notes"]; ok && n < len(row) {
			p.Notes = row[n]
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

// LoadComputeEfficiency reads the hardware compute-per-dollar table
// (Year, Entity, CPS_per_Dollar, Category, Impact, Notes).
func LoadComputeEfficiency(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "Year", "Entity", "CPS_per_Dollar", "Category", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "compute-efficiency", XLabel: "Year", YLabel: "Compute per Dollar (cps/$)"}
	for i, row := range rows {
		p, err := numericPoint(row, idx, "Entity", "Year", "CPS_per_Dollar")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if p.Y <= 0 {
			return nil, fmt.Errorf("%s row %d: non-positive cps/$ %g: %w", path, i+1, p.Y, fit.ErrInvalidInput)
		}
		p.Category = strings.TrimSpace(row[idx["Category"]])
		p.Impact = strings.TrimSpace(row[idx["Impact"]])
		if n, ok := idx["Notes"]; ok && n < len(row) {
			p.Notes = row[n]
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

// LoadCityScaling reads the civilizational metrics table
// (City, Population, GMP_Musd, Region, Impact, Notes). Urban output scales
// superlinearly with population, which the fit should recover (b ≈ 1.15).
func LoadCityScaling(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "City", "Population", "GMP_Musd", "Region", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "civilization-scaling", XLabel: "Population", YLabel: "Gross Metropolitan Product (M$)"}
	for i, row := range rows {
		p, err := numericPoint(row, idx, "City", "Population", "GMP_Musd")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if p.X <= 0 || p.Y <= 0 {
			return nil, fmt.Errorf("%s row %d: non-positive value (%g, %g): %w", path, i+1, p.X, p.Y, fit.ErrInvalidInput)
		}
		p.Category = strings.TrimSpace(row[idx["Region"]])
		p.Impact = strings.TrimSpace(row[idx["Impact"]])
		if n, ok := idx["Notes"]; ok && n < len(row) {
			p.Notes = row[n]
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

// LoadEnergyLeverage reads the per-capita energy leverage table
// (Year, Era, Watts_per_Capita, Impact, Notes).
func LoadEnergyLeverage(path string) (*Table, error) {
	header, rows, err := csvRows(path)
	if err != nil {
		return nil, err
	}
	idx, err := columns(header, "Year", "Era", "Watts_per_Capita", "Impact")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	t := &Table{Name: "energy-leverage", XLabel: "Year", YLabel: "Watts per Capita"}
	for i, row := range rows {
		p, err := numericPoint(row, idx, "Era", "Year", "Watts_per_Capita")
		if err != nil {
			return nil, fmt.Errorf("%s row %d: %w", path, i+1, err)
		}
		if p.Y <= 0 {
			return nil, fmt.Errorf("%s row %d: non-positive wattage %g: %w", path, i+1, p.Y, fit.ErrInvalidInput)
		}
		p.Category = "Energy"
		p.Impact = strings.TrimSpace(row[idx["Impact"]])
		if n, ok := idx["Notes"]; ok && n < len(row) {
			p.Notes = row[n]
		}
		t.Points = append(t.Points, p)
	}
	return t, nil
}

// numericPoint extracts the label and the two numeric axes shared by every
// loader.
func numericPoint(row []string, idx map[string]int, labelCol, xCol, yCol string) (Point, error) {
	x, err := strconv.ParseFloat(strings.TrimSpace(row[idx[xCol]]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad %s %q: %w", xCol, row[idx[xCol]], fit.ErrInvalidInput)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(row[idx[yCol]]), 64)
	if err != nil {
		return Point{}, fmt.Errorf("bad %s %q: %w", yCol, row[idx[yCol]], fit.ErrInvalidInput)
	}
	return Point{Label: strings.TrimSpace(row[idx[labelCol]]), X: x, Y: y}, nil
}
