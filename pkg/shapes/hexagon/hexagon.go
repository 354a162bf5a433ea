package hexagon

import (
	"math"

	"github.com/matzehuels/hexboard/pkg/geom"
	"github.com/matzehuels/hexboard/pkg/rng"
)

const (
	// Corners is the number of hexagon corners.
	Corners = 6
	// EdgeSamples is the number of samples interpolated along each edge.
	EdgeSamples = 32
	// DrawSamples is the length of the [DrawPoints] output: every edge plus
	// the first edge again.
	DrawSamples = Corners*EdgeSamples + EdgeSamples

	// jitterScale is the corner jitter as a fraction of the stroke width.
	jitterScale = 0.75
)

// base returns the unoffset, unrotated corners for a w×h box.
func base(w, h float64) geom.Polygon {
	return geom.Polygon{
		{X: w / 5, Y: 0},
		{X: w / 5 * 4, Y: 0},
		{X: w, Y: h / 2},
		{X: w / 5 * 4, Y: h},
		{X: w / 5, Y: h},
		{X: 0, Y: h / 2},
	}
}

// Points returns the six corners of the hexagon in a box of the given size.
// A positive offset moves every edge outward by that distance and a negative
// one moves it inward. A non-zero rotation (radians) turns the result about
// the center of the box. Degenerate sizes give degenerate points.
func Points(size geom.Size, offset, rotation float64) geom.Polygon {
	pts := base(size.W, size.H)
	if offset != 0 {
		pts = geom.OffsetPolygon(pts, offset)
	}
	if rotation != 0 {
		pts = pts.RotateAround(size.Center(), rotation)
	}
	return pts
}

// Centroid returns the label anchor of the hexagon: the mean of its first
// three corners.
func Centroid(size geom.Size) geom.Point {
	p := base(size.W, size.H)
	return geom.Point{
		X: (p[0].X + p[1].X + p[2].X) / 3,
		Y: (p[0].Y + p[1].Y + p[2].Y) / 3,
	}
}

// DrawPoints returns the hand-drawn stroke input for a hexagon: jittered
// corners joined by interpolated edges, starting at a seeded edge, with the
// first edge repeated at the end. The result always has [DrawSamples]
// entries and depends only on its arguments.
func DrawPoints(id string, size geom.Size, strokeWidth float64) []geom.Sample {
	r := rng.New(id)

	corners := base(size.W, size.H)
	for i := range corners {
		dx := r.Next() * strokeWidth * jitterScale
		dy := r.Next() * strokeWidth * jitterScale
		corners[i] = corners[i].Add(geom.Pt(dx, dy))
	}

	start := StartEdge(r.Next())

	edges := make([][]geom.Sample, Corners)
	for i := range edges {
		edges[i] = geom.PointsBetween(corners[i], corners[(i+1)%Corners], EdgeSamples)
	}
	edges = geom.RotateSlice(edges, start)

	out := make([]geom.Sample, 0, DrawSamples)
	for _, e := range edges {
		out = append(out, e...)
	}
	return append(out, edges[0]...)
}

// StartEdge maps a random draw to the index of the edge the outline starts
// on: |draw*6| rounded half up. Draws in [-0.5, 0.5) give 0 to 3; larger
// values wrap when the edges are rotated.
func StartEdge(draw float64) int {
	return roundHalfUp(math.Abs(draw * 2 * 3))
}

func roundHalfUp(x float64) int {
	f := math.Floor(x)
	if x-f >= 0.5 {
		f++
	}
	return int(f)
}
