package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/hexagon"
	"github.com/matzehuels/hexboard/pkg/svgpath"
)

const (
	labelFontFamily  = `'xkcd Script', 'Comic Sans MS', 'Bradley Hand', 'Segoe Script', sans-serif`
	labelHeightRatio = 0.3
	labelWidthRatio  = 0.85
	labelCharWidth   = 0.55
	labelSizeMin     = 8.0
	labelSizeMax     = 24.0
)

const overlayCSS = `
    .indicator { fill: none; stroke: ` + IndicatorColor + `; stroke-width: 1.5; stroke-linecap: round; }
    .label { text-anchor: middle; dominant-baseline: middle; font-family: ` + labelFontFamily + `; }`

// SVGOption configures SVG rendering.
type SVGOption func(*sceneConfig)

// WithIndicators draws each shape's stroke centreline as an overlay.
func WithIndicators() SVGOption { return func(c *sceneConfig) { c.indicators = true } }

// WithLabels writes each shape's label at its centroid.
func WithLabels() SVGOption { return func(c *sceneConfig) { c.labels = true } }

// WithPadding sets the margin around the drawing (default [DefaultPadding]).
func WithPadding(p float64) SVGOption { return func(c *sceneConfig) { c.padding = max(0, p) } }

// WithRenderer sets the hexagon renderer used for paths and colors.
func WithRenderer(r *hexagon.Renderer) SVGOption {
	return func(c *sceneConfig) {
		if r != nil {
			c.renderer = r
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) SVGOption {
	return func(c *sceneConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

func newSceneConfig(opts []SVGOption) sceneConfig {
	cfg := defaultSceneConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// RenderSVG renders the hexagons of page as an SVG document.
func RenderSVG(page *board.Page, opts ...SVGOption) ([]byte, error) {
	cfg := newSceneConfig(opts)
	sc, err := buildScene(page, cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s %s %s %s" width="%.0f" height="%.0f">`+"\n",
		svgpath.Fixed(sc.origin.X), svgpath.Fixed(sc.origin.Y),
		svgpath.Fixed(sc.size.W), svgpath.Fixed(sc.size.H),
		math.Ceil(sc.size.W), math.Ceil(sc.size.H))

	if cfg.indicators || cfg.labels {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", overlayCSS)
	}
	for _, it := range sc.items {
		renderItem(&buf, it, cfg)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func renderItem(buf *bytes.Buffer, it item, cfg sceneConfig) {
	sh := it.shape
	fmt.Fprintf(buf, `  <g id="shape-%s" class="hexagon" transform="%s">`+"\n", escapeXML(sh.ID), transform(sh))

	if len(it.fill) > 0 {
		fmt.Fprintf(buf, `    <path class="fill" d="%s" fill="%s"/>`+"\n", polygonPath(it.fill), it.resolved.Fill)
	}
	if d := svgpath.FromStroke(it.outline, true); d != "" {
		fmt.Fprintf(buf, `    <path class="ink" d="%s" fill="%s"/>`+"\n", d, it.resolved.Stroke)
	}
	if cfg.indicators {
		if d := svgpath.FromStroke(it.centerline, false); d != "" {
			fmt.Fprintf(buf, `    <path class="indicator" d="%s"/>`+"\n", strings.TrimSpace(d))
		}
	}
	if cfg.labels && sh.Label != "" {
		c := hexagon.Centroid(sh.Size)
		scale := sh.Style.Scale
		if scale <= 0 {
			scale = 1
		}
		fmt.Fprintf(buf, `    <text class="label" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`+"\n",
			svgpath.Fixed(c.X), svgpath.Fixed(c.Y),
			svgpath.Fixed(labelSize(sh.Size, sh.Label)*scale),
			it.resolved.Stroke, escapeXML(sh.Label))
	}

	buf.WriteString("  </g>\n")
}

func transform(sh *board.Shape) string {
	t := fmt.Sprintf("translate(%s %s)", svgpath.Fixed(sh.Point.X), svgpath.Fixed(sh.Point.Y))
	if sh.Rotation != 0 {
		c := sh.Size.Center()
		t += fmt.Sprintf(" rotate(%s %s %s)",
			svgpath.Fixed(sh.Rotation*180/math.Pi), svgpath.Fixed(c.X), svgpath.Fixed(c.Y))
	}
	return t
}

func polygonPath(poly geom.Polygon) string {
	var sb strings.Builder
	for i, p := range poly {
		if i == 0 {
			sb.WriteByte('M')
		} else {
			sb.WriteString(" L")
		}
		sb.WriteString(svgpath.Fixed(p.X))
		sb.WriteByte(',')
		sb.WriteString(svgpath.Fixed(p.Y))
	}
	if len(poly) > 0 {
		sb.WriteString(" Z")
	}
	return sb.String()
}

// labelSize fits text into the hexagon's box.
func labelSize(size geom.Size, text string) float64 {
	n := max(1, len([]rune(text)))
	byHeight := size.H * labelHeightRatio
	byWidth := (size.W * labelWidthRatio) / (float64(n) * labelCharWidth)
	return max(labelSizeMin, min(labelSizeMax, min(byHeight, byWidth)))
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
