package sink

import (
	"bytes"
	"fmt"
	"math"

	"github.com/gogpu/gg"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/svgpath"
)

// MaxPNGDimension bounds the width and height of a rendered PNG in pixels.
const MaxPNGDimension = 8192

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	sceneOpts  []SVGOption
	scale      float64
	background string
}

// WithPNGSVGOptions passes scene options (indicators, padding, renderer,
// logger) through to the PNG renderer.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.sceneOpts = opts }
}

// WithScale sets the pixel scale factor (default 2.0 for 2x resolution).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) {
		if s > 0 {
			r.scale = s
		}
	}
}

// WithBackground sets the background color as #rrggbb. An empty string
// leaves the background transparent.
func WithBackground(hex string) PNGOption {
	return func(r *pngRenderer) { r.background = hex }
}

// RenderPNG rasterises the hexagons of page.
func RenderPNG(page *board.Page, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 2.0, background: "#ffffff"}
	for _, opt := range opts {
		opt(&r)
	}
	cfg := newSceneConfig(r.sceneOpts)
	sc, err := buildScene(page, cfg)
	if err != nil {
		return nil, err
	}

	w := max(1, int(math.Ceil(sc.size.W*r.scale)))
	h := max(1, int(math.Ceil(sc.size.H*r.scale)))
	if w > MaxPNGDimension || h > MaxPNGDimension {
		return nil, fmt.Errorf("png size %dx%d exceeds %d pixels", w, h, MaxPNGDimension)
	}

	dc := gg.NewContext(w, h)
	defer dc.Close()
	if r.background != "" {
		dc.ClearWithColor(gg.Hex(r.background))
	}
	dc.Scale(r.scale, r.scale)
	dc.Translate(-sc.origin.X, -sc.origin.Y)

	for _, it := range sc.items {
		if err := drawItem(dc, it, cfg.indicators); err != nil {
			return nil, fmt.Errorf("draw shape %s: %w", it.shape.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	cfg.logger.Debug("rendered png", "width", w, "height", h, "bytes", buf.Len())
	return buf.Bytes(), nil
}

func drawItem(dc *gg.Context, it item, indicators bool) error {
	sh := it.shape
	dc.Push()
	defer dc.Pop()

	dc.Translate(sh.Point.X, sh.Point.Y)
	if sh.Rotation != 0 {
		c := sh.Size.Center()
		dc.RotateAbout(sh.Rotation, c.X, c.Y)
	}

	if len(it.fill) > 0 {
		tracePolygon(dc, it.fill)
		dc.SetHexColor(it.resolved.Fill)
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	if cmds := svgpath.Commands(it.outline, true); len(cmds) > 0 {
		traceCommands(dc, cmds)
		dc.SetHexColor(it.resolved.Stroke)
		if err := dc.Fill(); err != nil {
			return err
		}
	}

	if indicators {
		if cmds := svgpath.Commands(it.centerline, false); len(cmds) > 0 {
			traceCommands(dc, cmds)
			dc.SetHexColor(IndicatorColor)
			dc.SetLineWidth(1.5)
			if err := dc.Stroke(); err != nil {
				return err
			}
		}
	}
	return nil
}

func tracePolygon(dc *gg.Context, poly geom.Polygon) {
	for i, p := range poly {
		if i == 0 {
			dc.MoveTo(p.X, p.Y)
		} else {
			dc.LineTo(p.X, p.Y)
		}
	}
	dc.ClosePath()
}

func traceCommands(dc *gg.Context, cmds []svgpath.Command) {
	for _, c := range cmds {
		switch c.Op {
		case svgpath.MoveTo:
			dc.MoveTo(c.To.X, c.To.Y)
		case svgpath.QuadTo, svgpath.SmoothTo:
			dc.QuadraticTo(c.Ctrl.X, c.Ctrl.Y, c.To.X, c.To.Y)
		case svgpath.ClosePath:
			dc.ClosePath()
		}
	}
}
