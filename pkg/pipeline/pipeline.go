// Package pipeline provides the render pipeline shared by the CLI and the
// HTTP API.
//
// # Overview
//
// The pipeline has two entry points:
//
//  1. Hexagon: compute the corners, label anchor and hand-drawn paths of a
//     single hexagon
//  2. Render: draw a whole board page in one or more output formats
//
// Both go through a [Runner], which caches results so repeated requests are
// served without recomputing geometry.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//
//	shape, err := runner.RenderHexagon(ctx, pipeline.HexagonRequest{
//	    ID:    "hexagon-1",
//	    Size:  geom.Size{W: 100, H: 50},
//	    Style: style.Default(),
//	})
//
//	result, err := runner.Render(ctx, page, pipeline.Options{
//	    Formats:    []string{"svg", "png"},
//	    Indicators: true,
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hexboard/pkg/board"
	"github.com/matzehuels/hexboard/pkg/cache"
	"github.com/matzehuels/hexboard/pkg/errors"
	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/shapes/style"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultScale is the default PNG pixel scale.
const DefaultScale = 2.0

// MaxScale bounds the PNG pixel scale.
const MaxScale = 8.0

// Format constants for output formats.
const (
	FormatSVG      = "svg"
	FormatPNG      = "png"
	FormatDOT      = "dot"
	FormatJSON     = "json"
	FormatBindings = "bindings" // Graphviz SVG of the binding graph
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatPNG:      true,
	FormatDOT:      true,
	FormatJSON:     true,
	FormatBindings: true,
}

// =============================================================================
// Options - Page Render Configuration
// =============================================================================

// Options configures a page render.
// This struct supports JSON serialization for API requests.
type Options struct {
	Formats    []string `json:"formats,omitempty"`
	Indicators bool     `json:"indicators,omitempty"`
	Labels     bool     `json:"labels,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	// DefaultStyle is applied to hexagons whose style names no color and
	// no size.
	DefaultStyle *style.Style `json:"default_style,omitempty"`
	Refresh      bool         `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, dot, json, bindings)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 0 || o.Scale > MaxScale || math.IsNaN(o.Scale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be in (0, %g], got %v", MaxScale, o.Scale)
	}
	if o.DefaultStyle != nil {
		if err := o.DefaultStyle.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Indicators: o.Indicators,
		Labels:     o.Labels,
		Scale:      o.Scale,
	}
}

// =============================================================================
// Hexagon Requests
// =============================================================================

// HexagonRequest asks for the geometry and paths of one hexagon.
type HexagonRequest struct {
	ID       string      `json:"id"`
	Size     geom.Size   `json:"size"`
	Offset   float64     `json:"offset,omitempty"`
	Rotation float64     `json:"rotation,omitempty"`
	Style    style.Style `json:"style"`
}

// Validate checks the request and fills in the default style when none is
// given. An empty ID is allowed and draws the hexagon without jitter.
func (r *HexagonRequest) Validate() error {
	if r.ID != "" {
		if err := errors.ValidateID("shape", r.ID); err != nil {
			return err
		}
	}
	if r.Size.W < 0 || r.Size.H < 0 {
		return errors.New(errors.ErrCodeInvalidShape, "size must be non-negative, got %vx%v", r.Size.W, r.Size.H)
	}
	if math.IsNaN(r.Offset) || math.IsNaN(r.Rotation) {
		return errors.New(errors.ErrCodeInvalidInput, "offset and rotation must be numbers")
	}
	if r.Style == (style.Style{}) {
		r.Style = style.Default()
	}
	return r.Style.Validate()
}

// ShapeKeyOpts returns cache key options for the request.
func (r *HexagonRequest) ShapeKeyOpts() cache.ShapeKeyOpts {
	return cache.ShapeKeyOpts{
		W:        r.Size.W,
		H:        r.Size.H,
		Offset:   r.Offset,
		Rotation: r.Rotation,
		Color:    string(r.Style.Color),
		Size:     string(r.Style.Size),
		Dash:     string(r.Style.Dash),
		Filled:   r.Style.IsFilled,
	}
}

// HexagonResult is the computed output for one hexagon.
type HexagonResult struct {
	Points        geom.Polygon `json:"points"`
	Centroid      geom.Point   `json:"centroid"`
	Path          string       `json:"path"`
	IndicatorPath string       `json:"indicator_path"`
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a page render.
type Result struct {
	// Page is the rendered page after default styles were applied.
	Page *board.Page

	// PageHash is the content hash of the page.
	PageHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which outputs came from the cache.
	CacheInfo CacheInfo
}

// Stats contains render statistics.
type Stats struct {
	ShapeCount   int
	HexagonCount int
	BindingCount int
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	ShapeHit  bool // Whether a hexagon result came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// String summarises the stats for log output.
func (s Stats) String() string {
	return fmt.Sprintf("%d shapes (%d hexagons), %d bindings in %s",
		s.ShapeCount, s.HexagonCount, s.BindingCount, s.RenderTime.Round(time.Millisecond))
}
