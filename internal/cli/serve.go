package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/internal/server"
	"github.com/matzehuels/hexboard/pkg/board"
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the hexboard HTTP API",
		Example: `  hexboard serve --addr :8080
  curl -X POST localhost:8080/v1/hexagon/points -d '{"size":[100,50]}'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.Config.Server
			if !cmd.Flags().Changed("addr") {
				addr = cfg.Addr
			}

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			srv := server.New(runner, board.NewSyncer(store, c.Logger),
				server.WithLogger(c.Logger),
				server.WithDefaultStyle(c.Config.Style.Style()))
			printInfo(c.out, "Serving on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx, addr, cfg.ReadTimeout.Duration, cfg.WriteTimeout.Duration)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, 127.0.0.1:8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}
