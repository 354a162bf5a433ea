package geom

import (
	"encoding/json"
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool { return math.Abs(a-b) < eps }

func nearPt(a, b Point) bool { return near(a.X, b.X) && near(a.Y, b.Y) }

func TestRotateAround(t *testing.T) {
	tests := []struct {
		name string
		p, c Point
		r    float64
		want Point
	}{
		{"zero angle", Pt(3, 4), Pt(0, 0), 0, Pt(3, 4)},
		{"quarter turn", Pt(1, 0), Pt(0, 0), math.Pi / 2, Pt(0, 1)},
		{"half turn about center", Pt(0, 0), Pt(50, 25), math.Pi, Pt(100, 50)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.p.RotateAround(tt.c, tt.r); !nearPt(got, tt.want) {
				t.Errorf("RotateAround() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPerAndUnit(t *testing.T) {
	if got := Pt(1, 0).Per(); got != Pt(0, -1) {
		t.Errorf("Per() = %v, want (0,-1)", got)
	}
	if got := Pt(3, 4).Unit(); !nearPt(got, Pt(0.6, 0.8)) {
		t.Errorf("Unit() = %v, want (0.6,0.8)", got)
	}
	if got := (Point{}).Unit(); got != (Point{}) {
		t.Errorf("Unit() of zero = %v, want zero", got)
	}
}

func TestPointsBetween(t *testing.T) {
	pts := PointsBetween(Pt(0, 0), Pt(31, 62), 32)
	if len(pts) != 32 {
		t.Fatalf("len = %d, want 32", len(pts))
	}
	if pts[0].Point() != Pt(0, 0) || pts[31].Point() != Pt(31, 62) {
		t.Errorf("endpoints = %v, %v", pts[0], pts[31])
	}
	if !nearPt(pts[10].Point(), Pt(10, 20)) {
		t.Errorf("pts[10] = %v, want (10,20)", pts[10])
	}
	if pts[0].Pressure != 1 || pts[31].Pressure != 1 {
		t.Errorf("end pressure = %v, %v, want 1", pts[0].Pressure, pts[31].Pressure)
	}
	for i, p := range pts {
		if p.Pressure < 0.5 || p.Pressure > 1 {
			t.Errorf("pts[%d].Pressure = %v, want within [0.5, 1]", i, p.Pressure)
		}
	}
}

func TestRotateSlice(t *testing.T) {
	in := []int{0, 1, 2, 3, 4, 5}
	tests := []struct {
		offset int
		want   []int
	}{
		{0, []int{0, 1, 2, 3, 4, 5}},
		{2, []int{2, 3, 4, 5, 0, 1}},
		{6, []int{0, 1, 2, 3, 4, 5}},
		{7, []int{1, 2, 3, 4, 5, 0}},
		{-1, []int{5, 0, 1, 2, 3, 4}},
	}

	for _, tt := range tests {
		got := RotateSlice(in, tt.offset)
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("RotateSlice(%d) = %v, want %v", tt.offset, got, tt.want)
				break
			}
		}
	}

	if got := RotateSlice([]int{}, 3); len(got) != 0 {
		t.Errorf("RotateSlice(empty) = %v, want empty", got)
	}
	if in[0] != 0 {
		t.Error("RotateSlice() must not modify its input")
	}
}

func hexagon(w, h float64) Polygon {
	return Polygon{
		Pt(w/5, 0), Pt(w/5*4, 0), Pt(w, h/2),
		Pt(w/5*4, h), Pt(w/5, h), Pt(0, h/2),
	}
}

func TestOffsetPolygon(t *testing.T) {
	base := hexagon(100, 50)

	t.Run("zero offset copies", func(t *testing.T) {
		got := OffsetPolygon(base, 0)
		for i := range base {
			if got[i] != base[i] {
				t.Fatalf("OffsetPolygon(0)[%d] = %v, want %v", i, got[i], base[i])
			}
		}
	})

	for _, d := range []float64{5, -5} {
		got := OffsetPolygon(base, d)
		if len(got) != len(base) {
			t.Fatalf("len = %d, want %d", len(got), len(base))
		}
		// Horizontal edges move by exactly d.
		for _, i := range []int{0, 1} {
			if !near(got[i].Y, -d) {
				t.Errorf("d=%v: top vertex %d y = %v, want %v", d, i, got[i].Y, -d)
			}
		}
		for _, i := range []int{3, 4} {
			if !near(got[i].Y, 50+d) {
				t.Errorf("d=%v: bottom vertex %d y = %v, want %v", d, i, got[i].Y, 50+d)
			}
		}
	}
}

func TestOffsetPolygonMonotonic(t *testing.T) {
	base := hexagon(100, 50)
	c := Pt(50, 25)
	grown, shrunk := OffsetPolygon(base, 4), OffsetPolygon(base, -4)

	for i := range base {
		d0 := base[i].Dist(c)
		if grown[i].Dist(c) <= d0 {
			t.Errorf("vertex %d: grown distance %v <= base %v", i, grown[i].Dist(c), d0)
		}
		if shrunk[i].Dist(c) >= d0 {
			t.Errorf("vertex %d: shrunk distance %v >= base %v", i, shrunk[i].Dist(c), d0)
		}
	}
}

func TestOffsetPolygonDegenerate(t *testing.T) {
	got := OffsetPolygon(hexagon(0, 0), 3)
	for i, p := range got {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			t.Errorf("vertex %d is NaN: %v", i, p)
		}
	}

	flat := OffsetPolygon(hexagon(100, 0), 2)
	for i, p := range flat {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			t.Errorf("flat vertex %d not finite: %v", i, p)
		}
	}
}

func TestBounds(t *testing.T) {
	origin, size, ok := Bounds(Pt(3, 9), Pt(-1, 4), Pt(7, -2))
	if !ok {
		t.Fatal("Bounds() ok = false")
	}
	if origin != Pt(-1, -2) || size != (Size{W: 8, H: 11}) {
		t.Errorf("Bounds() = %v %v, want (-1,-2) {8 11}", origin, size)
	}
	if _, _, ok := Bounds(); ok {
		t.Error("Bounds() of nothing should report false")
	}
}

func TestJSON(t *testing.T) {
	var v struct {
		Point Point `json:"point"`
		Size  Size  `json:"size"`
	}
	if err := json.Unmarshal([]byte(`{"point":[1.5,2],"size":[100,50]}`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Point != Pt(1.5, 2) || v.Size != (Size{W: 100, H: 50}) {
		t.Errorf("decoded %+v", v)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(out) != `{"point":[1.5,2],"size":[100,50]}` {
		t.Errorf("Marshal() = %s", out)
	}

	if err := json.Unmarshal([]byte(`{"size":[-1,2]}`), &v); err == nil {
		t.Error("negative size should be rejected")
	}
	if err := json.Unmarshal([]byte(`{"point":[1]}`), &v); err == nil {
		t.Error("short point should be rejected")
	}
}

func TestSampleJSON(t *testing.T) {
	var got []Sample
	if err := json.Unmarshal([]byte(`[[1,2,0.5],[3,4]]`), &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	want := []Sample{{X: 1, Y: 2, Pressure: 0.5}, {X: 3, Y: 4, Pressure: -1}}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	out, err := json.Marshal(want[0])
	if err != nil || string(out) != `[1,2,0.5]` {
		t.Errorf("Marshal() = %s, %v", out, err)
	}
	if err := json.Unmarshal([]byte(`[1]`), &want[0]); err == nil {
		t.Error("short sample should be rejected")
	}
}
