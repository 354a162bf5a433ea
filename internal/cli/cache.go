package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/cache"
	"github.com/matzehuels/hexboard/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	var expired bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached shapes and renders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.clearCache(cmd.Context(), expired)
		},
	}
	cmd.Flags().BoolVar(&expired, "expired", false, "only remove entries past their TTL")
	return cmd
}

func (c *CLI) clearCache(ctx context.Context, expired bool) error {
	if c.Config.Cache.Backend != config.CacheFile {
		printWarning(c.out, "Only the file cache can be cleared (backend is %s)", c.Config.Cache.Backend)
		return nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	defer fc.Close()

	sweep, what := fc.Clear, "cached"
	if expired {
		sweep, what = fc.Prune, "expired"
	}
	n, err := sweep()
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("cleared cache", "dir", dir, "entries", n, "expired_only", expired)
	printSuccess(c.out, "Cleared %d %s entries", n, what)
	printDetail(c.out, "Directory: %s", fc.Dir())
	return nil
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.cacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(c.out, dir)
			return nil
		},
	}
}
