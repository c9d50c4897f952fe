package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/cli/output"
)

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new scalecharts project",
		Long: `Initialize a new scalecharts project with default layout and configuration.

This creates:
  - data/ directory with a starter dataset
  - charts/ output directory
  - scalecharts.yaml configuration file`,
		Example: `  # Initialize in current directory
  scalecharts init

  # Initialize in a new directory
  scalecharts init my-charts

  # Force overwrite existing config
  scalecharts init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")

	return cmd
}

const defaultConfigYAML = `# scalecharts project configuration
data_dir: data
out_dir: charts

# Output formats for 'scalecharts build'
formats:
  - png
  - svg
  - html

# Parallel chart builds
workers: 4

# Outlier threshold in standard deviations of log residuals
sigma: 2.0

serve:
  port: 8383
  watch: true
`

// starterDataset gives a new project something to fit and render
// immediately. Values follow the usual neuron-count estimates.
const starterDataset = `Entity,Neurons,Synapses,Category,Impact,Notes
C. elegans,302,7500,Invertebrates,Low,Complete connectome mapped
Fruit fly,140000,50000000,Invertebrates,Medium,Drosophila melanogaster
Honey bee,960000,1000000000,Invertebrates,Medium,Navigation and dance language
Mouse,71000000,100000000000,Mammals,High,Primary lab model
Cat,760000000,10000000000000,Mammals,Medium,Estimated cortex counts
Human,86000000000,150000000000000,Primates,Transformative,Reference point
`

func runInit(r *output.Renderer, dir string, force bool) error {
	cfgPath := filepath.Join(dir, "scalecharts.yaml")
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	for _, sub := range []string{"data", "charts"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o750); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	if err := os.WriteFile(cfgPath, []byte(defaultConfigYAML), 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	dataPath := filepath.Join(dir, "data", "neuron_scaling.csv")
	if _, err := os.Stat(dataPath); os.IsNotExist(err) || force {
		if err := os.WriteFile(dataPath, []byte(starterDataset), 0o600); err != nil {
			return fmt.Errorf("failed to write starter dataset: %w", err)
		}
	}

	styles := r.Styles()
	r.Println(styles.Success.Render("Initialized scalecharts project in " + dir))
	r.Println("")
	r.Println("Created:")
	r.Println("  scalecharts.yaml")
	r.Println("  data/neuron_scaling.csv")
	r.Println("  charts/")
	r.Println("")
	r.Println(styles.Muted.Render("Next: scalecharts build"))
	return nil
}
