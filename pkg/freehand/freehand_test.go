package freehand

import (
	"math"
	"testing"

	"github.com/matzehuels/hexboard/pkg/geom"
)

func line() []geom.Sample {
	return geom.PointsBetween(geom.Pt(0, 0), geom.Pt(100, 0), 32)
}

func TestStrokeRadius(t *testing.T) {
	tests := []struct {
		name                     string
		size, thinning, pressure float64
		easing                   Easing
		want                     float64
	}{
		{"half pressure", 8, 0.65, 0.5, nil, 4},
		{"full pressure", 8, 0.65, 1, nil, 6.6},
		{"no thinning", 8, 0, 0.1, nil, 4},
		{"eased", 8, 0, 0.5, func(t float64) float64 { return t * t }, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StrokeRadius(tt.size, tt.thinning, tt.pressure, tt.easing)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("StrokeRadius() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrokePointsEmpty(t *testing.T) {
	if got := StrokePoints(nil, DefaultOptions()); got != nil {
		t.Errorf("StrokePoints(nil) = %v, want nil", got)
	}
	if got := Stroke(nil, DefaultOptions()); got != nil {
		t.Errorf("Stroke(nil) = %v, want nil", got)
	}
}

func TestStrokePointsSinglePoint(t *testing.T) {
	opts := DefaultOptions()
	opts.Last = true
	got := StrokePoints([]geom.Sample{{X: 0, Y: 0, Pressure: 0.5}}, opts)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[1].Point != geom.Pt(1, 1) {
		t.Errorf("padded point = %v, want (1,1)", got[1].Point)
	}
	if got[0].Vector != got[1].Vector {
		t.Errorf("first vector %v should copy second %v", got[0].Vector, got[1].Vector)
	}
}

func TestStrokePointsLine(t *testing.T) {
	opts := Options{Size: 4, Thinning: 0.65, Streamline: 0.3, Smoothing: 1, Last: true}
	pts := StrokePoints(line(), opts)

	if len(pts) < 2 {
		t.Fatalf("len = %d, want at least 2", len(pts))
	}
	if pts[0].Point != geom.Pt(0, 0) {
		t.Errorf("first point = %v, want origin", pts[0].Point)
	}
	if last := pts[len(pts)-1].Point; last != geom.Pt(100, 0) {
		t.Errorf("last point = %v, want (100,0) when Last is set", last)
	}
	if pts[0].Pressure != 1 {
		t.Errorf("first pressure = %v, want input pressure 1", pts[0].Pressure)
	}

	prev := -1.0
	for i, p := range pts {
		if p.Point.Y != 0 {
			t.Errorf("pts[%d] left the line: %v", i, p.Point)
		}
		if p.RunningLength <= prev && i > 0 {
			t.Errorf("pts[%d].RunningLength = %v, not increasing", i, p.RunningLength)
		}
		prev = p.RunningLength
		if v := p.Vector; math.Abs(v.X+1) > 1e-12 || v.Y != 0 {
			t.Errorf("pts[%d].Vector = %v, want (-1,0)", i, v)
		}
	}
}

func TestStrokePointsWithoutLast(t *testing.T) {
	opts := Options{Size: 4, Streamline: 0.5}
	pts := StrokePoints(line(), opts)
	if last := pts[len(pts)-1].Point; last.X >= 100 {
		t.Errorf("last point = %v, want streamlined short of the end", last)
	}
}

func TestStrokePointsDefaultPressure(t *testing.T) {
	in := []geom.Sample{
		{X: 0, Y: 0, Pressure: -1},
		{X: 10, Y: 0, Pressure: -1},
		{X: 20, Y: 0, Pressure: -1},
	}
	pts := StrokePoints(in, Options{Size: 1, Last: true})
	if pts[0].Pressure != firstPressure {
		t.Errorf("first pressure = %v, want %v", pts[0].Pressure, firstPressure)
	}
	for _, p := range pts[1:] {
		if p.Pressure != defaultPressure {
			t.Errorf("pressure = %v, want %v", p.Pressure, defaultPressure)
		}
	}
}

func TestOutlineLine(t *testing.T) {
	opts := Options{Size: 4, Thinning: 0, Streamline: 0.3, Smoothing: 1, Last: true, CapStart: true, CapEnd: true}
	out := Stroke(line(), opts)
	if len(out) == 0 {
		t.Fatal("Stroke() returned no points")
	}

	origin, size, _ := geom.Bounds(out...)
	r := opts.Size / 2
	if math.Abs(size.H-2*r) > 0.01 {
		t.Errorf("outline height = %v, want %v", size.H, 2*r)
	}
	if origin.X > -r+0.05 || origin.X+size.W < 100+r-0.05 {
		t.Errorf("outline x span [%v, %v] should cover the caps", origin.X, origin.X+size.W)
	}
	for i, p := range out {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Fatalf("out[%d] is NaN", i)
		}
	}
}

func TestOutlineZeroSize(t *testing.T) {
	pts := StrokePoints(line(), Options{Size: 4})
	if got := OutlinePoints(pts, Options{Size: 0}); got != nil {
		t.Errorf("OutlinePoints(size 0) = %v, want nil", got)
	}
}

func TestOutlineDot(t *testing.T) {
	c := geom.Pt(5, 5)
	dot := OutlinePoints([]StrokePoint{{Point: c, Pressure: 0.5}}, Options{Size: 4})
	if len(dot) < 12 {
		t.Fatalf("dot has %d points, want a full circle", len(dot))
	}
	for i, p := range dot {
		if d := p.Dist(c); math.Abs(d-2) > 1e-9 {
			t.Errorf("dot[%d] at distance %v, want 2", i, d)
		}
	}
}

func TestStrokeDeterministic(t *testing.T) {
	opts := Options{Size: 3.5, Thinning: 0.65, Streamline: 0.3, Smoothing: 1, Last: true, CapStart: true, CapEnd: true}
	in := append(line(), geom.PointsBetween(geom.Pt(100, 0), geom.Pt(100, 60), 32)...)
	a, b := Stroke(in, opts), Stroke(in, opts)
	if len(a) != len(b) {
		t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

// maxAbsY returns the largest |y| of the points with x in [lo, hi].
func maxAbsY(pts []geom.Point, lo, hi float64) float64 {
	m := 0.0
	for _, p := range pts {
		if p.X >= lo && p.X <= hi {
			m = math.Max(m, math.Abs(p.Y))
		}
	}
	return m
}

func TestOutlineBranches(t *testing.T) {
	const eps = 1e-9
	steady := line()
	for i := range steady {
		steady[i].Pressure = 1
	}
	base := Options{Size: 4, Streamline: 0.3, Smoothing: 1, Last: true}

	tests := []struct {
		name  string
		input []geom.Sample
		opts  func(o Options) Options
		check func(t *testing.T, out []geom.Point)
	}{
		{
			name:  "flat caps",
			input: line(),
			opts:  func(o Options) Options { return o },
			check: func(t *testing.T, out []geom.Point) {
				origin, size, _ := geom.Bounds(out...)
				if origin.X < -eps || origin.X+size.W > 100+eps {
					t.Errorf("x span [%v, %v], want flat ends at 0 and 100", origin.X, origin.X+size.W)
				}
				if got := maxAbsY(out, -1, 101); math.Abs(got-2.04) > eps {
					t.Errorf("max |y| = %v, want 2.04 from the start cap shoulders", got)
				}
				if last := out[len(out)-1]; math.Abs(last.X) > eps || math.Abs(last.Y+2) > eps {
					t.Errorf("last point = %v, want start cap corner (0,-2)", last)
				}
			},
		},
		{
			name:  "tapered ends",
			input: line(),
			opts: func(o Options) Options {
				o.CapStart, o.CapEnd = true, true
				o.TaperStart, o.TaperEnd = 20, 20
				return o
			},
			check: func(t *testing.T, out []geom.Point) {
				if got := maxAbsY(out, 40, 60); math.Abs(got-2) > eps {
					t.Errorf("mid-stroke half width = %v, want 2", got)
				}
				if got := maxAbsY(out, -1, 6); got > 1.5 {
					t.Errorf("start half width = %v, want tapered below 1.5", got)
				}
				hasTip := false
				for _, p := range out {
					if p == geom.Pt(100, 0) {
						hasTip = true
					}
				}
				if !hasTip {
					t.Error("tapered end should meet at the last point (100,0)")
				}
				if last := out[len(out)-1]; math.Abs(last.X) > eps || math.Abs(last.Y-0.01) > eps {
					t.Errorf("last point = %v, want (0,0.01) with no start cap", last)
				}
			},
		},
		{
			name:  "input pressure",
			input: steady,
			opts: func(o Options) Options {
				o.Thinning, o.Smoothing = 0.5, 0.5
				o.CapStart, o.CapEnd = true, true
				return o
			},
			check: func(t *testing.T, out []geom.Point) {
				if got := maxAbsY(out, 40, 60); math.Abs(got-3) > eps {
					t.Errorf("mid-stroke half width = %v, want 3 at full pressure", got)
				}
			},
		},
		{
			name:  "simulated pressure",
			input: steady,
			opts: func(o Options) Options {
				o.Thinning, o.Smoothing = 0.5, 0.5
				o.CapStart, o.CapEnd = true, true
				o.SimulatePressure = true
				return o
			},
			check: func(t *testing.T, out []geom.Point) {
				// Fast, evenly spaced samples thin the stroke regardless of
				// the recorded pressure.
				if got := maxAbsY(out, 40, 60); got < 1 || got > 2 {
					t.Errorf("mid-stroke half width = %v, want within [1, 2]", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Stroke(tt.input, tt.opts(base))
			if len(out) == 0 {
				t.Fatal("Stroke() returned no points")
			}
			for i, p := range out {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) {
					t.Fatalf("out[%d] is NaN", i)
				}
			}
			tt.check(t, out)
		})
	}
}
