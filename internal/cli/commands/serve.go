package commands

import (
	"github.com/spf13/cobra"

	"github.com/scalelab/scalecharts/internal/serve"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port  int
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Build the charts and serve a local gallery",
		Long: `Build every chart, then serve a gallery of the results.

With watch mode enabled (the default), edits to the CSV datasets trigger
a rebuild and connected browsers reload automatically.`,
		Example: `  # Serve on the default port
  scalecharts serve

  # Custom port, no watching
  scalecharts serve --port 9000 --watch=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Rebuild and reload on dataset changes")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cmdCtx := NewCommandContext(cmd)

	serveCfg := cmdCtx.Cfg.GetServeConfig()
	port := serveCfg.Port
	if cmd.Flags().Changed("port") {
		port = opts.Port
	}
	watch := serveCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	srv := serve.NewServer(serve.Config{
		Builder: newBuilder(cmdCtx.Cfg, cmdCtx.Logger),
		Port:    port,
		Watch:   watch,
		Logger:  cmdCtx.Logger,
	})
	return srv.Serve(cmd.Context())
}
