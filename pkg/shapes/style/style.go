// Package style describes how a board shape is drawn and resolves that
// description into concrete stroke and fill attributes.
//
// A [Style] is what the board document stores: a named color, a size, a dash
// pattern and a fill flag. A [Resolver] turns it into a [Resolved] style with
// hex colors and a stroke width. [DefaultResolver] implements the stock
// palette; callers with their own theme supply another Resolver.
package style

import (
	"fmt"
	"math"
	"strconv"

	"github.com/matzehuels/hexboard/pkg/errors"
)

// Color names a palette entry.
type Color string

// Palette colors.
const (
	ColorWhite     Color = "white"
	ColorLightGray Color = "lightGray"
	ColorGray      Color = "gray"
	ColorBlack     Color = "black"
	ColorGreen     Color = "green"
	ColorCyan      Color = "cyan"
	ColorBlue      Color = "blue"
	ColorIndigo    Color = "indigo"
	ColorViolet    Color = "violet"
	ColorRed       Color = "red"
	ColorOrange    Color = "orange"
	ColorYellow    Color = "yellow"
)

// Size is a named stroke size.
type Size string

// Stroke sizes.
const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Dash is a stroke dash pattern.
type Dash string

// Dash patterns.
const (
	DashDraw   Dash = "draw"
	DashSolid  Dash = "solid"
	DashDashed Dash = "dashed"
	DashDotted Dash = "dotted"
)

// Style is the stored style of a shape.
type Style struct {
	Color    Color   `json:"color"`
	Size     Size    `json:"size"`
	Dash     Dash    `json:"dash"`
	IsFilled bool    `json:"isFilled,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// Default returns the style new shapes get: small black hand-drawn strokes
// without fill.
func Default() Style {
	return Style{
		Color: ColorBlack,
		Size:  SizeSmall,
		Dash:  DashDraw,
		Scale: 1,
	}
}

// Validate reports whether every field names a known value.
func (s Style) Validate() error {
	if _, ok := palette[s.Color]; !ok {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown color %q", s.Color)
	}
	if _, ok := strokeWidths[s.Size]; !ok {
		return errors.New(errors.ErrCodeInvalidStyle, "unknown size %q (want small, medium or large)", s.Size)
	}
	switch s.Dash {
	case DashDraw, DashSolid, DashDashed, DashDotted, "":
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unknown dash %q", s.Dash)
	}
	if s.Scale < 0 || math.IsNaN(s.Scale) || math.IsInf(s.Scale, 0) {
		return errors.New(errors.ErrCodeInvalidStyle, "scale must be a non-negative number, got %v", s.Scale)
	}
	return nil
}

// Resolved holds concrete drawing attributes.
type Resolved struct {
	Stroke      string  `json:"stroke"`
	Fill        string  `json:"fill"`
	StrokeWidth float64 `json:"strokeWidth"`
}

// Resolver maps a stored style to drawing attributes.
type Resolver interface {
	Resolve(s Style) (Resolved, error)
}

// ResolverFunc adapts a function to [Resolver].
type ResolverFunc func(s Style) (Resolved, error)

// Resolve calls f(s).
func (f ResolverFunc) Resolve(s Style) (Resolved, error) { return f(s) }

// DefaultResolver resolves styles against the stock light palette.
var DefaultResolver Resolver = paletteResolver{}

type paletteResolver struct{}

func (paletteResolver) Resolve(s Style) (Resolved, error) {
	if err := s.Validate(); err != nil {
		return Resolved{}, err
	}
	stroke := palette[s.Color]
	fill := "none"
	if s.IsFilled {
		fill = fillFor(stroke)
	}
	return Resolved{
		Stroke:      stroke,
		Fill:        fill,
		StrokeWidth: strokeWidths[s.Size],
	}, nil
}

// StrokeWidth returns the width for a named size and whether it is known.
func StrokeWidth(size Size) (float64, bool) {
	w, ok := strokeWidths[size]
	return w, ok
}

var strokeWidths = map[Size]float64{
	SizeSmall:  2,
	SizeMedium: 3.5,
	SizeLarge:  5,
}

var palette = map[Color]string{
	ColorWhite:     "#f0f1f3",
	ColorLightGray: "#c6cbd1",
	ColorGray:      "#788492",
	ColorBlack:     "#1d1d1d",
	ColorGreen:     "#36b24d",
	ColorCyan:      "#0e98ad",
	ColorBlue:      "#1c7ed6",
	ColorIndigo:    "#4263eb",
	ColorViolet:    "#7746f1",
	ColorRed:       "#ff2133",
	ColorOrange:    "#ff9433",
	ColorYellow:    "#ffc936",
}

// Colors lists the palette in display order.
func Colors() []Color {
	return []Color{
		ColorWhite, ColorLightGray, ColorGray, ColorBlack,
		ColorGreen, ColorCyan, ColorBlue, ColorIndigo,
		ColorViolet, ColorRed, ColorOrange, ColorYellow,
	}
}

const (
	canvasColor = "#fafafa"
	fillMix     = 0.82
)

// fillFor lightens a stroke color toward the canvas.
func fillFor(stroke string) string {
	return LerpColor(stroke, canvasColor, fillMix)
}

// LerpColor mixes two #rrggbb colors, t=0 giving a and t=1 giving b.
// Malformed input returns a unchanged.
func LerpColor(a, b string, t float64) string {
	ca, okA := parseHex(a)
	cb, okB := parseHex(b)
	if !okA || !okB {
		return a
	}
	var out [3]uint8
	for i := range out {
		v := float64(ca[i]) + (float64(cb[i])-float64(ca[i]))*t
		out[i] = uint8(math.Round(math.Max(0, math.Min(255, v))))
	}
	return fmt.Sprintf("#%02x%02x%02x", out[0], out[1], out[2])
}

func parseHex(s string) ([3]uint8, bool) {
	var c [3]uint8
	if len(s) != 7 || s[0] != '#' {
		return c, false
	}
	for i := range c {
		v, err := strconv.ParseUint(s[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return c, false
		}
		c[i] = uint8(v)
	}
	return c, true
}
