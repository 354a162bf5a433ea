package geom

import (
	"math"

	jgeom "github.com/jbeda/geom"
)

// parallelEpsilon is the cross-product magnitude below which two offset
// edges are treated as parallel.
const parallelEpsilon = 1e-12

// OffsetPolygon moves every edge of poly by d along its normal and returns
// the polygon formed by the intersections of neighbouring offset edges.
// Positive d grows a clockwise (screen space) polygon and negative d shrinks
// it. The result has one point per input point, index-aligned with poly.
//
// Where neighbouring edges are parallel or have zero length no intersection
// exists; the vertex is then moved along whichever edge normal is defined.
// Large negative offsets may produce a self-intersecting result.
func OffsetPolygon(poly Polygon, d float64) Polygon {
	n := len(poly)
	if n < 3 || d == 0 {
		return poly.Clone()
	}

	normals := make([]jgeom.Coord, n)
	for i := range poly {
		a, b := coord(poly[i]), coord(poly[(i+1)%n])
		dir := b.Minus(a)
		if dir.Magnitude() == 0 {
			continue
		}
		u := dir.Unit()
		normals[i] = jgeom.Coord{X: u.Y, Y: -u.X}
	}

	out := make(Polygon, n)
	for i := range poly {
		prev, next := (i+n-1)%n, (i+1)%n
		v := coord(poly[i])
		np, nc := normals[prev].Times(d), normals[i].Times(d)

		p0, p1 := coord(poly[prev]).Plus(np), v.Plus(np)
		q0, q1 := v.Plus(nc), coord(poly[next]).Plus(nc)
		if x, ok := intersectLines(p0, p1, q0, q1); ok {
			out[i] = point(x)
			continue
		}

		shift := nc
		if normals[i].Magnitude() == 0 {
			shift = np
		}
		out[i] = point(v.Plus(shift))
	}
	return out
}

// intersectLines intersects the infinite lines through p0-p1 and q0-q1.
func intersectLines(p0, p1, q0, q1 jgeom.Coord) (jgeom.Coord, bool) {
	r, s := p1.Minus(p0), q1.Minus(q0)
	denom := cross(r, s)
	if math.Abs(denom) < parallelEpsilon || r.Magnitude() == 0 || s.Magnitude() == 0 {
		return jgeom.Coord{}, false
	}
	t := cross(q0.Minus(p0), s) / denom
	return p0.Plus(r.Times(t)), true
}

func cross(a, b jgeom.Coord) float64 {
	return a.X*b.Y - a.Y*b.X
}

func coord(p Point) jgeom.Coord {
	return jgeom.Coord{X: p.X, Y: p.Y}
}

func point(c jgeom.Coord) Point {
	return Point{X: c.X, Y: c.Y}
}

// Bounds returns the axis-aligned bounding box of pts as its minimum corner
// and size. It reports false for an empty input.
func Bounds(pts ...Point) (origin Point, size Size, ok bool) {
	if len(pts) == 0 {
		return Point{}, Size{}, false
	}
	r := jgeom.Rect{Min: coord(pts[0]), Max: coord(pts[0])}
	for _, p := range pts[1:] {
		r.ExpandToContainCoord(coord(p))
	}
	return point(r.Min), Size{W: r.Max.X - r.Min.X, H: r.Max.Y - r.Min.Y}, true
}
