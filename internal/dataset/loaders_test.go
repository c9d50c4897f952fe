package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scalelab/scalecharts/internal/fit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dataDir points at the repository's shipped datasets.
func dataDir() string {
	return filepath.Join("..", "..", "data")
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadNeuronScaling(t *testing.T) {
	tbl, err := LoadNeuronScaling(filepath.Join(dataDir(), "neuron_scaling.csv"))
	require.NoError(t, err)

	assert.Equal(t, "neuron-scaling", tbl.Name)
	assert.Len(t, tbl.Points, 15)
	assert.Contains(t, tbl.Categories(), "Mammals")
	assert.Contains(t, tbl.Categories(), "Primates")

	mammals := tbl.FilterCategory("Mammals")
	require.NotEmpty(t, mammals)
	for _, p := range mammals {
		assert.Positive(t, p.X)
		assert.Positive(t, p.Y)
	}

	// The shipped table must be fittable end to end.
	_, err = fit.PowerLaw(tbl.Samples())
	require.NoError(t, err)
}

func TestLoadNeuronScaling_RejectsNonPositive(t *testing.T) {
	path := writeCSV(t, "Entity,Body_Mass_kg,Total_Neurons,Neurons_per_kg,Group,Impact,Notes\nGhost,0,1e8,1e9,Mammals,Low,\n")

	_, err := LoadNeuronScaling(path)
	assert.ErrorIs(t, err, fit.ErrInvalidInput)
}

func TestLoadAIMilestones(t *testing.T) {
	tbl, err := LoadAIMilestones(filepath.Join(dataDir(), "ai_milestones.csv"))
	require.NoError(t, err)

	require.NotEmpty(t, tbl.Points)
	for _, p := range tbl.Points {
		assert.Positivef(t, p.Y, "milestone %q must carry a plottable compute value", p.Label)
	}

	// N/A compute rows fall back to era proxies.
	var turing *Point
	for i := range tbl.Points {
		if tbl.Points[i].Label == "Turing Machine" {
			turing = &tbl.Points[i]
		}
	}
	require.NotNil(t, turing)
	assert.Equal(t, 1e2, turing.Y)
	assert.Equal(t, "Theoretical Foundation", turing.Category)
}

func TestLoadAIMilestones_PrimaryCategory(t *testing.T) {
	path := writeCSV(t, "Year,Event,Category,Compute_FLOPs,Parameters,Impact\n2020,GPT-3,Model Release;Generative,3.14E+23,175B,Transformative\n")

	tbl, err := LoadAIMilestones(path)
	require.NoError(t, err)
	require.Len(t, tbl.Points, 1)
	assert.Equal(t, "Model Release", tbl.Points[0].Category)
	assert.InEpsilon(t, 3.14e23, tbl.Points[0].Y, 1e-9)
}

func TestLoadAIMilestones_BadYear(t *testing.T) {
	path := writeCSV(t, "Year,Event,Category,Compute_FLOPs,Parameters,Impact\nsoon,Event,Other,N/A,N/A,Low\n")

	_, err := LoadAIMilestones(path)
	assert.ErrorIs(t, err, fit.ErrInvalidInput)
}

func TestLoadTechAdoption(t *testing.T) {
	tbl, err := LoadTechAdoption(filepath.Join(dataDir(), "tech_adoption.csv"))
	require.NoError(t, err)

	require.NotEmpty(t, tbl.Points)
	assert.Equal(t, "Fortran", tbl.Points[0].Label)

	_, err = fit.LogLinear(tbl.Samples())
	require.NoError(t, err)
}

func TestLoadComputeEfficiency(t *testing.T) {
	tbl, err := LoadComputeEfficiency(filepath.Join(dataDir(), "compute_efficiency.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, tbl.Points)

	r, err := fit.LogLinear(tbl.Samples())
	require.NoError(t, err)
	assert.Greater(t, r.Exponent, 0.0, "compute per dollar grows over time")
	assert.Greater(t, r.RSquared, 0.9)
}

func TestLoadCityScaling(t *testing.T) {
	tbl, err := LoadCityScaling(filepath.Join(dataDir(), "city_scaling.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, tbl.Points)

	r, err := fit.PowerLaw(tbl.Samples())
	require.NoError(t, err)
	assert.Greater(t, r.Exponent, 0.5, "urban output should scale with population")
}

func TestLoadEnergyLeverage(t *testing.T) {
	tbl, err := LoadEnergyLeverage(filepath.Join(dataDir(), "energy_leverage.csv"))
	require.NoError(t, err)
	require.NotEmpty(t, tbl.Points)

	// Negative years (BCE) are valid on the time axis.
	assert.Negative(t, tbl.Points[0].X)

	_, err = fit.LogLinear(tbl.Samples())
	require.NoError(t, err)
}

func TestLoad_MissingColumn(t *testing.T) {
	path := writeCSV(t, "Foo,Bar\n1,2\n")

	_, err := LoadTechAdoption(path)
	assert.ErrorIs(t, err, fit.ErrInvalidInput)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := LoadTechAdoption(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoad_EmptyFile(t *testing.T) {
	path := writeCSV(t, "Year,Technology,Category,Days_to_Adoption,Impact,Notes\n")

	_, err := LoadTechAdoption(path)
	assert.ErrorIs(t, err, fit.ErrInvalidInput)
}
