// Package dataset loads the CSV source tables behind each chart.
//
// Every table is read once per invocation, validated while loading, and
// never mutated afterwards. Column schemas are fixed per dataset; a header
// mismatch or malformed cell fails the load immediately — there is no retry
// policy in a batch tool.
package dataset

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/scalelab/scalecharts/internal/fit"
)

// Point is one labeled observation in a dataset.
type Point struct {
	Label    string
	X        float64
	Y        float64
	Category string
	Impact   string
	Notes    string
}

// Table is an ordered, immutable collection of Points sharing a semantic
// axis pair.
type Table struct {
	Name   string
	XLabel string
	YLabel string
	Points []Point
}

// Samples converts the table to fitting samples, preserving order.
func (t *Table) Samples() []fit.Sample {
	out := make([]fit.Sample, len(t.Points))
	for i, p := range t.Points {
		out[i] = fit.Sample{X: p.X, Y: p.Y}
	}
	return out
}

// FilterCategory returns the points whose Category matches, in order.
func (t *Table) FilterCategory(category string) []Point {
	var out []Point
	for _, p := range t.Points {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the distinct categories in first-seen order.
func (t *Table) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range t.Points {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}

// csvRows reads a whole CSV file and returns its header row and data rows.
func csvRows(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil, fmt.Errorf("%s has no data rows: %w", path, fit.ErrInvalidInput)
	}
	return records[0], records[1:], nil
}

// columns maps required header names to their indices.
func columns(header []string, required ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[h] = i
	}
	for _, name := range required {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q: %w", name, fit.ErrInvalidInput)
		}
	}
	return idx, nil
}
