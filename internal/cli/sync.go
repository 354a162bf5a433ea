package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/errors"
)

type syncOpts struct {
	workspace string
	page      string
	create    bool
	asJSON    bool
}

// syncCommand creates the sync command.
func (c *CLI) syncCommand() *cobra.Command {
	var opts syncOpts

	cmd := &cobra.Command{
		Use:   "sync [changes.json]",
		Short: "Apply a page change to the block store",
		Long: `Apply a page change to the configured block store.

The input holds the changed shapes and bindings keyed by id; a null entry
deletes it. --workspace and --page override the ids in the file.`,
		Example: `  hexboard sync changes.json --workspace team --page page:1 --create
  cat changes.json | hexboard sync - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ch, err := readPageChange(args[0])
			if err != nil {
				return err
			}
			if opts.workspace != "" {
				ch.Workspace = opts.workspace
			}
			if opts.page != "" {
				ch.RootBlockID = opts.page
			}
			return c.runSync(cmd.Context(), ch, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.workspace, "workspace", "w", "", "workspace id")
	cmd.Flags().StringVarP(&opts.page, "page", "p", "", "root page block id")
	cmd.Flags().BoolVar(&opts.create, "create", false, "create the page block if it does not exist")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the sync result as JSON")

	return cmd
}

func (c *CLI) runSync(ctx context.Context, ch board.PageChange, opts *syncOpts) error {
	if err := errors.ValidateID("workspace", ch.Workspace); err != nil {
		return err
	}
	if err := errors.ValidateID("page", ch.RootBlockID); err != nil {
		return err
	}

	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	store, err := c.newStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	syncer := board.NewSyncer(store, logger)
	if opts.create {
		if _, err := syncer.EnsureRoot(ctx, ch.Workspace, ch.RootBlockID); err != nil {
			return err
		}
	}

	spinner := newSpinner(ctx, os.Stderr, "Syncing page...")
	spinner.Start()
	res, err := syncer.ApplyPageChange(ctx, ch)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done("synced", "workspace", ch.Workspace, "page", ch.RootBlockID)

	if opts.asJSON {
		return c.printJSON(res)
	}
	printSuccess(c.out, "Synced %s/%s", ch.Workspace, ch.RootBlockID)
	printKeyValue(c.out, "created", StyleNumber.Render(strconv.Itoa(res.Created)))
	printKeyValue(c.out, "updated", StyleNumber.Render(strconv.Itoa(res.Updated)))
	printKeyValue(c.out, "deleted", StyleNumber.Render(strconv.Itoa(res.Deleted)))
	printKeyValue(c.out, "bindings", StyleNumber.Render(strconv.Itoa(len(res.Bindings))))
	return nil
}

// readPageChange reads a page change from path, or from stdin when path is
// "-".
func readPageChange(path string) (board.PageChange, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			if os.IsNotExist(err) {
				return board.PageChange{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "changes file %s", path)
			}
			return board.PageChange{}, err
		}
		defer f.Close()
		r = f
	}

	var ch board.PageChange
	if err := json.NewDecoder(r).Decode(&ch); err != nil {
		return board.PageChange{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode page change")
	}
	return ch, nil
}
