package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalelab/scalecharts/internal/cli/output"
	"github.com/scalelab/scalecharts/internal/cli/testutil"
)

// withProjectEnv points the env-fallback config at the repo datasets and
// a temporary output directory.
func withProjectEnv(t *testing.T) string {
	t.Helper()

	outDir := t.TempDir()
	t.Setenv("SCALECHARTS_DATA_DIR", "../../../data")
	t.Setenv("SCALECHARTS_OUT_DIR", outDir)
	t.Setenv("SCALECHARTS_FORMATS", "svg")
	t.Setenv("SCALECHARTS_OUTPUT", "markdown")
	return outDir
}

func TestBuildCommandAll(t *testing.T) {
	outDir := withProjectEnv(t)

	out, err := execute(t, NewBuildCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Build")
	assert.Contains(t, out, "ai-compute-timeline")
	assert.Contains(t, out, "0 failed")
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)

	svg, err := os.ReadFile(filepath.Join(outDir, "adoption-timeline", "adoption-timeline.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestBuildCommandSelect(t *testing.T) {
	withProjectEnv(t)

	out, err := execute(t, NewBuildCommand(), "--select", "energetic-scaling-bio")
	require.NoError(t, err)

	assert.Contains(t, out, "energetic-scaling-bio")
	assert.NotContains(t, out, "civilization-scaling")
}

func TestBuildCommandUnknownChart(t *testing.T) {
	withProjectEnv(t)

	_, err := execute(t, NewBuildCommand(), "--select", "no-such-chart")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-chart")
}

func TestBuildCommandMissingData(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_DATA_DIR", t.TempDir())

	_, err := execute(t, NewBuildCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestBuildCommandJSONOutput(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_OUTPUT", "json")

	out, err := execute(t, NewBuildCommand(), "--select", "adoption-timeline")
	require.NoError(t, err)
	assert.Contains(t, out, `"RunID"`)
	assert.Contains(t, out, "adoption-timeline")
}

func TestListCommandMarkdown(t *testing.T) {
	withProjectEnv(t)

	out, err := execute(t, NewListCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Charts")
	assert.Contains(t, out, "ai-compute-timeline")
	assert.Contains(t, out, "energy-leverage")
	assert.Contains(t, out, "ai_milestones.csv")
}

func TestListCommandJSON(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_OUTPUT", "json")

	out, err := execute(t, NewListCommand())
	require.NoError(t, err)
	assert.Contains(t, out, `"name": "civilization-scaling"`)
	assert.Contains(t, out, `"dataset": "city_scaling.csv"`)
}

func TestFitCommandPowerLaw(t *testing.T) {
	withProjectEnv(t)

	out, err := execute(t, NewFitCommand(), "energetic-scaling-bio")
	require.NoError(t, err)

	assert.Contains(t, out, "Fit")
	assert.Contains(t, out, "Exponent")
	assert.Contains(t, out, "R-squared")
}

func TestFitCommandCategory(t *testing.T) {
	withProjectEnv(t)

	out, err := execute(t, NewFitCommand(), "energetic-scaling-bio", "--category", "Mammals")
	require.NoError(t, err)
	assert.Contains(t, out, "Mammals")
}

func TestFitCommandUnknownCategory(t *testing.T) {
	withProjectEnv(t)

	_, err := execute(t, NewFitCommand(), "energetic-scaling-bio", "--category", "Dragons")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dragons")
}

func TestFitCommandLogLinear(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_OUTPUT", "json")

	out, err := execute(t, NewFitCommand(), "adoption-timeline", "--kind", "log-linear")
	require.NoError(t, err)
	assert.Contains(t, out, `"fold_per_step"`)
	assert.Contains(t, out, `"r_squared"`)
}

func TestFitCommandScaffoldedProject(t *testing.T) {
	dir := testutil.SetupTestProject(t)
	t.Setenv("SCALECHARTS_DATA_DIR", filepath.Join(dir, "data"))
	t.Setenv("SCALECHARTS_OUT_DIR", t.TempDir())
	t.Setenv("SCALECHARTS_OUTPUT", "text")

	out, err := execute(t, NewFitCommand(), "energetic-scaling-bio", "--category", "Mammals")
	require.NoError(t, err)
	assert.Contains(t, out, "Mammals")
	assert.Contains(t, out, "Exponent")
	testutil.AssertNoANSI(t, out)
}

func TestRenderFitReportText(t *testing.T) {
	tr := testutil.NewTestRenderer(output.ModeText)
	renderFitReport(tr.Renderer, &fitReport{
		Chart: "demo", Kind: "power-law", Samples: 3,
		Coefficient: 2, Intercept: 0.301, Exponent: 1, RSquared: 1, Sigma: 2,
	})

	out := tr.Output()
	assert.Contains(t, out, "Coefficient")
	assert.Contains(t, out, "Intercept")
	assert.Contains(t, out, "No outliers beyond 2.0 sigma")
	testutil.AssertNoANSI(t, out)
}

func TestFitCommandSigmaDefaultsFromConfig(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_OUTPUT", "json")

	// Without the flag the configured threshold applies.
	out, err := execute(t, NewFitCommand(), "energetic-scaling-bio")
	require.NoError(t, err)
	assert.Contains(t, out, `"sigma": 2`)
	assert.Contains(t, out, `"intercept"`)

	t.Setenv("SCALECHARTS_SIGMA", "1.25")
	out, err = execute(t, NewFitCommand(), "energetic-scaling-bio")
	require.NoError(t, err)
	assert.Contains(t, out, `"sigma": 1.25`)

	// The flag still wins over configuration.
	out, err = execute(t, NewFitCommand(), "energetic-scaling-bio", "--sigma", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, `"sigma": 0.5`)
}

func TestFitCommandUnknownChart(t *testing.T) {
	withProjectEnv(t)

	_, err := execute(t, NewFitCommand(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart")
}

func TestFitCommandBadKind(t *testing.T) {
	withProjectEnv(t)

	_, err := execute(t, NewFitCommand(), "energetic-scaling-bio", "--kind", "quadratic")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown fit kind")
}

func TestValidateCommandAllPass(t *testing.T) {
	withProjectEnv(t)

	out, err := execute(t, NewValidateCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "civilization-scaling")
	assert.NotContains(t, out, "FAILED")
}

func TestValidateCommandMissingData(t *testing.T) {
	withProjectEnv(t)
	t.Setenv("SCALECHARTS_DATA_DIR", t.TempDir())

	out, err := execute(t, NewValidateCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed validation")
	assert.Contains(t, out, "FAILED")
}

func TestInitCommand(t *testing.T) {
	withProjectEnv(t)
	dir := t.TempDir()

	out, err := execute(t, NewInitCommand(), dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized")

	for _, path := range []string{
		filepath.Join(dir, "scalecharts.yaml"),
		filepath.Join(dir, "data", "neuron_scaling.csv"),
	} {
		_, err := os.Stat(path)
		assert.NoError(t, err, "expected %s to exist", path)
	}

	// Second init without --force refuses to clobber.
	_, err = execute(t, NewInitCommand(), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, NewInitCommand(), dir, "--force")
	require.NoError(t, err)
}
