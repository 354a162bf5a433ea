package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file (single format) or base path (several)
	formats    []string // svg, png, dot, json, bindings
	indicators bool     // draw selection indicators
	labels     bool     // draw shape labels (SVG only)
	scale      float64  // PNG scale factor
	noCache    bool     // bypass the cache entirely
	refresh    bool     // re-render and overwrite cached artifacts
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [page.json]",
		Short: "Render a board page to SVG, PNG or Graphviz",
		Long: `Render a board page to SVG, PNG or Graphviz.

The input is a page JSON file, or a document holding exactly one page.
Use "-" to read from stdin. With one format and no -o the output goes next to
the input; with several formats -o names the base path.`,
		Example: `  hexboard render board.json
  hexboard render board.json -f svg,png --indicators -o out/board
  hexboard render board.json -f dot -o -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := c.Config.Render
			if !cmd.Flags().Changed("format") && len(cfg.Formats) > 0 {
				opts.formats = cfg.Formats
			} else {
				opts.formats = parseFormats(formatsStr)
			}
			if !cmd.Flags().Changed("indicators") {
				opts.indicators = cfg.Indicators
			}
			if !cmd.Flags().Changed("labels") {
				opts.labels = cfg.Labels
			}
			if !cmd.Flags().Changed("scale") && cfg.Scale > 0 {
				opts.scale = cfg.Scale
			}
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", `output file or base path ("-" for stdout)`)
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot, json, bindings (comma-separated)")
	cmd.Flags().BoolVar(&opts.indicators, "indicators", false, "draw selection indicators")
	cmd.Flags().BoolVar(&opts.labels, "labels", false, "draw shape labels (svg only)")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "png scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	page, err := readPage(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded page", "page", page.ID, "shapes", len(page.Shapes), "bindings", len(page.Bindings))

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	def := c.Config.Style.Style()
	result, err := runner.Render(ctx, page, pipeline.Options{
		Formats:      opts.formats,
		Indicators:   opts.indicators,
		Labels:       opts.labels,
		Scale:        opts.scale,
		DefaultStyle: &def,
		Refresh:      opts.refresh,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	paths := outputPaths(opts.output, input, opts.formats)
	toStdout := false
	for _, format := range opts.formats {
		if err := writeOutput(paths[format], c.out, result.Artifacts[format]); err != nil {
			return err
		}
		if paths[format] == "-" {
			toStdout = true
		}
	}
	if !toStdout {
		printSuccess(c.out, "Rendered %s", page.ID)
		for _, format := range opts.formats {
			printFile(c.out, paths[format])
		}
		printStats(c.out, result.Stats.ShapeCount, result.Stats.HexagonCount, result.Stats.BindingCount, result.CacheInfo.RenderHit)
	}
	prog.done("rendered", "page", page.ID, "formats", strings.Join(opts.formats, ","))
	return nil
}

// readPage reads a page from path, or from stdin when path is "-".
func readPage(path string) (*board.Page, error) {
	if path == "-" {
		return board.ReadPage(os.Stdin)
	}
	return board.ReadPageFile(path)
}

// basePath derives the base output path. An empty output strips the
// extension from input; an output ending in a format extension loses it.
func basePath(output, input string) string {
	if output == "" {
		if input == "-" {
			return "page"
		}
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if pipeline.ValidFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPaths returns the file written for each format. A single format
// with an explicit output uses it verbatim.
func outputPaths(output, input string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}
	base := basePath(output, input)
	for _, f := range formats {
		paths[f] = fmt.Sprintf("%s.%s", base, fileExt(f))
	}
	return paths
}

func fileExt(format string) string {
	if format == pipeline.FormatBindings {
		return "bindings.svg"
	}
	return format
}

// writeOutput writes data to path, or to stdout when path is "-".
func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
