package hexagon

import (
	"github.com/matzehuels/hexboard/pkg/freehand"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
	"github.com/matzehuels/hexboard/pkg/svgpath"
)

// Stroke settings for the hand-drawn hexagon.
const (
	strokeThinning   = 0.65
	strokeStreamline = 0.3
	strokeSmoothing  = 1
)

// StrokeInfo is the input to the stroke algorithm for one hexagon.
type StrokeInfo struct {
	Points  []geom.Sample    `json:"points"`
	Options freehand.Options `json:"options"`
}

// StrokeOptions returns the stroke settings for a hexagon drawn at the
// given stroke width.
func StrokeOptions(strokeWidth float64) freehand.Options {
	return freehand.Options{
		Size:             strokeWidth,
		Thinning:         strokeThinning,
		Streamline:       strokeStreamline,
		Smoothing:        strokeSmoothing,
		SimulatePressure: false,
		Last:             true,
		CapStart:         true,
		CapEnd:           true,
	}
}

// OutlineFunc expands stroke input into a filled outline polygon.
type OutlineFunc func(points []geom.Sample, opts freehand.Options) []geom.Point

// CenterlineFunc streamlines stroke input into centreline points.
type CenterlineFunc func(points []geom.Sample, opts freehand.Options) []freehand.StrokePoint

// Renderer produces hexagon paths from its style resolver and stroke
// functions. The zero value is not usable; create one with [NewRenderer].
type Renderer struct {
	resolver   style.Resolver
	outline    OutlineFunc
	centerline CenterlineFunc
}

// Option configures a [Renderer].
type Option func(*Renderer)

// WithResolver sets the style resolver (default [style.DefaultResolver]).
func WithResolver(r style.Resolver) Option { return func(x *Renderer) { x.resolver = r } }

// WithOutline sets the outline function (default [freehand.Stroke]).
func WithOutline(f OutlineFunc) Option { return func(x *Renderer) { x.outline = f } }

// WithCenterline sets the centreline function (default [freehand.StrokePoints]).
func WithCenterline(f CenterlineFunc) Option { return func(x *Renderer) { x.centerline = f } }

// NewRenderer returns a Renderer with the given options applied over the
// defaults.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		resolver:   style.DefaultResolver,
		outline:    freehand.Stroke,
		centerline: freehand.StrokePoints,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the concrete colors and stroke width for s.
func (r *Renderer) Resolve(s style.Style) (style.Resolved, error) {
	return r.resolver.Resolve(s)
}

// StrokeInfo resolves s to a stroke width and returns the jittered stroke
// input with the matching options. Errors come from the style resolver and
// are returned unchanged.
func (r *Renderer) StrokeInfo(id string, size geom.Size, s style.Style) (StrokeInfo, error) {
	resolved, err := r.resolver.Resolve(s)
	if err != nil {
		return StrokeInfo{}, err
	}
	return StrokeInfo{
		Points:  DrawPoints(id, size, resolved.StrokeWidth),
		Options: StrokeOptions(resolved.StrokeWidth),
	}, nil
}

// Outline returns the filled ink outline polygon of the hexagon.
func (r *Renderer) Outline(id string, size geom.Size, s style.Style) ([]geom.Point, error) {
	info, err := r.StrokeInfo(id, size, s)
	if err != nil {
		return nil, err
	}
	return r.outline(info.Points, info.Options), nil
}

// Path returns the ink outline of the hexagon as closed SVG path data.
func (r *Renderer) Path(id string, size geom.Size, s style.Style) (string, error) {
	outline, err := r.Outline(id, size, s)
	if err != nil {
		return "", err
	}
	return svgpath.FromStroke(outline, true), nil
}

// Centerline returns the positions of the streamlined stroke centreline.
func (r *Renderer) Centerline(id string, size geom.Size, s style.Style) ([]geom.Point, error) {
	info, err := r.StrokeInfo(id, size, s)
	if err != nil {
		return nil, err
	}
	sp := r.centerline(info.Points, info.Options)
	pts := make([]geom.Point, len(sp))
	for i, p := range sp {
		pts[i] = p.Point
	}
	return pts, nil
}

// IndicatorPath returns the stroke centreline of the hexagon as open SVG
// path data, for selection and hover outlines.
func (r *Renderer) IndicatorPath(id string, size geom.Size, s style.Style) (string, error) {
	pts, err := r.Centerline(id, size, s)
	if err != nil {
		return "", err
	}
	return svgpath.FromStroke(pts, false), nil
}

var defaultRenderer = NewRenderer()

// GetStrokeInfo calls [Renderer.StrokeInfo] on the default renderer.
func GetStrokeInfo(id string, size geom.Size, s style.Style) (StrokeInfo, error) {
	return defaultRenderer.StrokeInfo(id, size, s)
}

// Path calls [Renderer.Path] on the default renderer.
func Path(id string, size geom.Size, s style.Style) (string, error) {
	return defaultRenderer.Path(id, size, s)
}

// IndicatorPath calls [Renderer.IndicatorPath] on the default renderer.
func IndicatorPath(id string, size geom.Size, s style.Style) (string, error) {
	return defaultRenderer.IndicatorPath(id, size, s)
}
