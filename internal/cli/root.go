package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The config file is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          appName,
		Short:        "hexboard draws hand-sketched hexagons and syncs whiteboard pages",
		Long:         `hexboard computes hand-drawn hexagon outlines, renders board pages to SVG, PNG and Graphviz, syncs page changes to a block store, and serves the same operations over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hexboard/config.toml)")

	root.AddCommand(c.hexagonCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.syncCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
