package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/query"
)

// QueryOptions holds options for the query command.
type QueryOptions struct {
	Format string
	Input  string
}

// NewQueryCommand creates the query command.
func NewQueryCommand() *cobra.Command {
	opts := &QueryOptions{}

	cmd := &cobra.Command{
		Use:   "query [SQL]",
		Short: "Query the chart datasets with SQL",
		Long: `Run SQL over the CSV datasets.

Every dataset is mounted as a DuckDB view named after its file, so the
raw numbers behind any chart can be inspected, joined, and aggregated.
Supports multiple output formats for scripting and integration.

When invoked without arguments, enters interactive REPL mode.`,
		Example: `  # Execute SQL directly
  scalecharts query "SELECT Year, Event FROM ai_milestones ORDER BY Year"

  # List mounted dataset views
  scalecharts query datasets

  # Show schema for a dataset
  scalecharts query schema neuron_scaling

  # Output as JSON
  scalecharts query "SELECT * FROM tech_adoption" --format json

  # Interactive mode
  scalecharts query`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "table", "Output format: table, json, csv, md")
	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", "Read SQL from file")

	cmd.AddCommand(newQueryDatasetsCommand())
	cmd.AddCommand(newQuerySchemaCommand(opts))

	return cmd
}

func runQuery(cmd *cobra.Command, args []string, opts *QueryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	ctx := cmd.Context()

	store, err := query.Open(ctx, cmdCtx.Cfg.DataDir)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	// Determine SQL source
	var sqlQuery string

	switch {
	case len(args) > 0:
		sqlQuery = strings.Join(args, " ")
	case opts.Input != "":
		content, err := os.ReadFile(opts.Input)
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		sqlQuery = string(content)
	case !isTerminal(os.Stdin):
		// Read from stdin (piped input)
		content, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		sqlQuery = string(content)
	default:
		// No input, TTY detected - enter REPL mode
		return query.RunREPL(ctx, store, query.REPLOptions{
			HistoryFile: filepath.Join(cmdCtx.Cfg.DataDir, ".query_history"),
			Format:      opts.Format,
			Out:         cmd.OutOrStdout(),
			Err:         cmd.ErrOrStderr(),
		})
	}

	rows, err := store.Query(ctx, sqlQuery)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	return query.RenderRows(cmd.OutOrStdout(), rows, opts.Format)
}

// newQueryDatasetsCommand creates the datasets subcommand.
func newQueryDatasetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "datasets",
		Short: "List mounted dataset views",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)

			store, err := query.Open(cmd.Context(), cmdCtx.Cfg.DataDir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, v := range store.Views() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), v)
			}
			return nil
		},
	}
}

// newQuerySchemaCommand creates the schema subcommand.
func newQuerySchemaCommand(opts *QueryOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <dataset>",
		Short: "Show columns for a dataset view",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)

			store, err := query.Open(cmd.Context(), cmdCtx.Cfg.DataDir)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rows, err := store.Describe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			defer func() { _ = rows.Close() }()

			return query.RenderRows(cmd.OutOrStdout(), rows, opts.Format)
		},
	}
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
