package freehand

import "github.com/matzehuels/hexboard/pkg/geom"

const (
	// defaultPressure is used for samples without a pressure reading.
	defaultPressure = 0.5
	// firstPressure is used for a first sample without a pressure reading.
	firstPressure = 0.25
)

// StrokePoint is one point of a streamlined stroke centreline.
type StrokePoint struct {
	Point    geom.Point `json:"point"`
	Pressure float64    `json:"pressure"`
	// Vector is the unit direction from this point back to the previous one.
	Vector geom.Point `json:"vector"`
	// Distance is the length of the segment ending at this point.
	Distance float64 `json:"distance"`
	// RunningLength is the stroke length up to and including this point.
	RunningLength float64 `json:"runningLength"`
}

// StrokePoints streamlines input into a stroke centreline.
//
// Each point is pulled toward the previous one by an amount set by
// opts.Streamline. Points that do not move are dropped, and so are points
// before the stroke has covered opts.Size in length, unless the input ends
// first. A sample with negative pressure takes the default pressure.
func StrokePoints(input []geom.Sample, opts Options) []StrokePoint {
	if len(input) == 0 {
		return nil
	}
	t := 0.15 + (1-opts.Streamline)*0.85

	pts := make([]geom.Sample, len(input))
	copy(pts, input)

	// Short inputs are padded so the outline has something to work with.
	switch len(pts) {
	case 2:
		last := pts[1]
		pts = pts[:1]
		for i := 1; i < 5; i++ {
			p := pts[0].Point().Lerp(last.Point(), float64(i)/4)
			pts = append(pts, geom.Sample{X: p.X, Y: p.Y, Pressure: -1})
		}
	case 1:
		pts = append(pts, geom.Sample{X: pts[0].X + 1, Y: pts[0].Y + 1, Pressure: pts[0].Pressure})
	}

	first := StrokePoint{
		Point:    pts[0].Point(),
		Pressure: pressureOr(pts[0].Pressure, firstPressure),
		Vector:   geom.Pt(1, 1),
	}
	out := []StrokePoint{first}

	var (
		reachedMinimum bool
		runningLength  float64
		prev           = first
		last           = len(pts) - 1
	)
	for i := 1; i < len(pts); i++ {
		var p geom.Point
		if opts.Last && i == last {
			p = pts[i].Point()
		} else {
			p = prev.Point.Lerp(pts[i].Point(), t)
		}
		if p == prev.Point {
			continue
		}

		d := p.Dist(prev.Point)
		runningLength += d
		if i < last && !reachedMinimum {
			if runningLength < opts.Size {
				continue
			}
			reachedMinimum = true
		}

		prev = StrokePoint{
			Point:         p,
			Pressure:      pressureOr(pts[i].Pressure, defaultPressure),
			Vector:        prev.Point.Sub(p).Unit(),
			Distance:      d,
			RunningLength: runningLength,
		}
		out = append(out, prev)
	}

	if len(out) > 1 {
		out[0].Vector = out[1].Vector
	} else {
		out[0].Vector = geom.Point{}
	}
	return out
}

func pressureOr(p, fallback float64) float64 {
	if p >= 0 {
		return p
	}
	return fallback
}
