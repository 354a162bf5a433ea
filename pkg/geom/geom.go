package geom

import "math"

// Point is a 2D position or displacement.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul returns p scaled by s.
func (p Point) Mul(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Neg returns -p.
func (p Point) Neg() Point {
	return Point{X: -p.X, Y: -p.Y}
}

// Per returns p turned a quarter turn: (y, -x).
func (p Point) Per() Point {
	return Point{X: p.Y, Y: -p.X}
}

// Dot returns the dot product of p and q.
func (p Point) Dot(q Point) float64 {
	return p.X*q.X + p.Y*q.Y
}

// Cross returns the z component of the 3D cross product of p and q.
func (p Point) Cross(q Point) float64 {
	return p.X*q.Y - p.Y*q.X
}

// Len returns the length of p.
func (p Point) Len() float64 {
	return math.Hypot(p.X, p.Y)
}

// Dist returns the distance between p and q.
func (p Point) Dist(q Point) float64 {
	return p.Sub(q).Len()
}

// Dist2 returns the squared distance between p and q.
func (p Point) Dist2(q Point) float64 {
	d := p.Sub(q)
	return d.X*d.X + d.Y*d.Y
}

// Unit returns p scaled to length 1, or the zero point if p has no length.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{X: p.X / l, Y: p.Y / l}
}

// Lerp interpolates from p (t=0) to q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return p.Add(q.Sub(p).Mul(t))
}

// Project moves p by distance c along direction dir.
func (p Point) Project(dir Point, c float64) Point {
	return p.Add(dir.Mul(c))
}

// RotateAround rotates p about c by r radians. A positive angle turns the
// +x axis toward +y.
func (p Point) RotateAround(c Point, r float64) Point {
	if r == 0 {
		return p
	}
	s, co := math.Sin(r), math.Cos(r)
	px, py := p.X-c.X, p.Y-c.Y
	return Point{
		X: px*co - py*s + c.X,
		Y: px*s + py*co + c.Y,
	}
}

// Size is the width and height of a bounding box.
type Size struct {
	W, H float64
}

// Center returns the center of a box of this size anchored at the origin.
func (s Size) Center() Point {
	return Point{X: s.W / 2, Y: s.H / 2}
}

// Polygon is an ordered, implicitly closed list of points.
type Polygon []Point

// Clone returns a copy of the polygon.
func (p Polygon) Clone() Polygon {
	if p == nil {
		return nil
	}
	out := make(Polygon, len(p))
	copy(out, p)
	return out
}

// Translate returns the polygon moved by d.
func (p Polygon) Translate(d Point) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Add(d)
	}
	return out
}

// RotateAround returns the polygon rotated about c by r radians.
func (p Polygon) RotateAround(c Point, r float64) Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.RotateAround(c, r)
	}
	return out
}

// Sample is a stroke input point with a pressure channel in [0, 1].
// A negative pressure means "unknown" and lets the stroke algorithm pick
// its default.
type Sample struct {
	X, Y     float64
	Pressure float64
}

// Point drops the pressure channel.
func (s Sample) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Lerp interpolates position and pressure from s (t=0) to o (t=1).
func (s Sample) Lerp(o Sample, t float64) Sample {
	return Sample{
		X:        s.X + (o.X-s.X)*t,
		Y:        s.Y + (o.Y-s.Y)*t,
		Pressure: s.Pressure + (o.Pressure-s.Pressure)*t,
	}
}

// PointsBetween returns steps samples evenly spaced from a to b, both ends
// included. Pressure is 1 at the ends and falls to 0.5 at the midpoint, so
// the stroke algorithm draws thinner ink in the middle of each run.
func PointsBetween(a, b Point, steps int) []Sample {
	out := make([]Sample, steps)
	for i := range out {
		var t float64
		if steps > 1 {
			t = float64(i) / float64(steps-1)
		}
		p := a.Lerp(b, t)
		out[i] = Sample{
			X:        p.X,
			Y:        p.Y,
			Pressure: math.Min(1, 0.5+math.Abs(0.5-t)),
		}
	}
	return out
}

// RotateSlice returns a new slice whose i-th element is s[(i+offset) mod len(s)].
// Offsets outside [0, len(s)) wrap, negative ones included.
func RotateSlice[T any](s []T, offset int) []T {
	n := len(s)
	out := make([]T, n)
	if n == 0 {
		return out
	}
	shift := ((offset % n) + n) % n
	for i := range out {
		out[i] = s[(i+shift)%n]
	}
	return out
}
