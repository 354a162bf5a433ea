package cli

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/pipeline"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

// hexagonOpts holds flags shared by the hexagon subcommands.
type hexagonOpts struct {
	size     string  // box size as WxH
	offset   float64 // edge offset in pixels
	rotation float64 // rotation in degrees
	asJSON   bool
}

func (o *hexagonOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.size, "size", "s", "100x100", "bounding box as WIDTHxHEIGHT")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print JSON")
}

// hexagonCommand creates the hexagon geometry command.
func (c *CLI) hexagonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hexagon",
		Short: "Compute hexagon geometry and hand-drawn paths",
	}
	cmd.AddCommand(c.hexagonPointsCommand())
	cmd.AddCommand(c.hexagonCentroidCommand())
	cmd.AddCommand(c.hexagonPathCommand())
	return cmd
}

func (c *CLI) hexagonPointsCommand() *cobra.Command {
	var opts hexagonOpts
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Print the six corners of a hexagon",
		Example: `  hexboard hexagon points --size 120x80
  hexboard hexagon points --size 120x80 --offset 4 --rotation 30 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseSize(opts.size)
			if err != nil {
				return err
			}
			pts := hexagon.Points(size, opts.offset, opts.rotation*math.Pi/180)
			if opts.asJSON {
				return c.printJSON(pts)
			}
			for i, p := range pts {
				printKeyValue(c.out, fmt.Sprintf("corner %d", i), formatPoint(p))
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().Float64Var(&opts.offset, "offset", 0, "move every edge outward (positive) or inward (negative)")
	cmd.Flags().Float64Var(&opts.rotation, "rotation", 0, "rotation about the box center in degrees")
	return cmd
}

func (c *CLI) hexagonCentroidCommand() *cobra.Command {
	var opts hexagonOpts
	cmd := &cobra.Command{
		Use:   "centroid",
		Short: "Print the label anchor of a hexagon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseSize(opts.size)
			if err != nil {
				return err
			}
			p := hexagon.Centroid(size)
			if opts.asJSON {
				return c.printJSON(p)
			}
			printKeyValue(c.out, "centroid", formatPoint(p))
			return nil
		},
	}
	opts.addFlags(cmd)
	return cmd
}

func (c *CLI) hexagonPathCommand() *cobra.Command {
	var (
		opts      hexagonOpts
		id        string
		st        = style.Default()
		color     string
		strokeSz  string
		dash      string
		indicator bool
	)
	cmd := &cobra.Command{
		Use:   "path",
		Short: "Print the hand-drawn SVG path of a hexagon",
		Long: `Print the hand-drawn SVG path of a hexagon.

The jitter is seeded by --id, so the same id always draws the same outline.
With --indicator the open selection centreline is printed instead.`,
		Example: `  hexboard hexagon path --id shape:abc --size 120x80 --color blue
  hexboard hexagon path --id shape:abc --indicator`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := parseSize(opts.size)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("color") {
				st.Color = style.Color(color)
			}
			if cmd.Flags().Changed("stroke") {
				st.Size = style.Size(strokeSz)
			}
			if cmd.Flags().Changed("dash") {
				st.Dash = style.Dash(dash)
			}

			runner, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer runner.Close()

			res, cached, err := runner.RenderHexagonWithCacheInfo(cmd.Context(), pipeline.HexagonRequest{
				ID:    id,
				Size:  size,
				Style: st,
			})
			if err != nil {
				return err
			}
			c.Logger.Debug("computed hexagon path", "id", id, "cached", cached)

			if opts.asJSON {
				return c.printJSON(res)
			}
			if indicator {
				fmt.Fprintln(c.out, res.IndicatorPath)
			} else {
				fmt.Fprintln(c.out, res.Path)
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVar(&id, "id", "", "shape id seeding the jitter (empty draws without jitter)")
	cmd.Flags().StringVar(&color, "color", string(st.Color), "stroke color name")
	cmd.Flags().StringVar(&strokeSz, "stroke", string(st.Size), "stroke size: small, medium or large")
	cmd.Flags().StringVar(&dash, "dash", string(st.Dash), "dash style: draw, solid, dashed or dotted")
	cmd.Flags().BoolVar(&st.IsFilled, "filled", false, "fill the hexagon")
	cmd.Flags().BoolVar(&indicator, "indicator", false, "print the open selection indicator path")

	_ = cmd.RegisterFlagCompletionFunc("color", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		colors := style.Colors()
		names := make([]string, len(colors))
		for i, col := range colors {
			names[i] = string(col)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

// parseSize parses "WxH" into a size.
func parseSize(s string) (geom.Size, error) {
	w, h, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want WIDTHxHEIGHT)", s)
	}
	wv, errW := strconv.ParseFloat(strings.TrimSpace(w), 64)
	hv, errH := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if errW != nil || errH != nil || wv < 0 || hv < 0 {
		return geom.Size{}, errors.New(errors.ErrCodeInvalidInput, "invalid size %q (want non-negative WIDTHxHEIGHT)", s)
	}
	return geom.Size{W: wv, H: hv}, nil
}

func formatPoint(p geom.Point) string {
	return fmt.Sprintf("%s, %s",
		StyleNumber.Render(strconv.FormatFloat(p.X, 'f', 2, 64)),
		StyleNumber.Render(strconv.FormatFloat(p.Y, 'f', 2, 64)))
}

func (c *CLI) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
