package freehand

import (
	"math"

	"github.com/matzehuels/hexboard/pkg/geom"
)

const (
	// fixedPi is a hair over π so caps overshoot the half turn slightly.
	fixedPi = math.Pi + 0.0001
	// pressureChangeRate limits how quickly simulated pressure follows speed.
	pressureChangeRate = 0.275
	// minTailLength is the distance from the end inside which points are
	// skipped so the end cap is not crowded.
	minTailLength = 3
	// minRadius keeps tapered ends from collapsing to a point.
	minRadius = 0.01
)

// StrokeRadius returns the radius of a stroke of the given size at the given
// pressure. thinning sets how strongly pressure affects the result.
func StrokeRadius(size, thinning, pressure float64, easing Easing) float64 {
	if easing == nil {
		easing = Linear
	}
	return size * easing(0.5-thinning*(0.5-pressure))
}

// Stroke returns the outline polygon of the stroke through input.
func Stroke(input []geom.Sample, opts Options) []geom.Point {
	return OutlinePoints(StrokePoints(input, opts), opts)
}

// OutlinePoints expands a stroke centreline into a closed outline polygon:
// the left side, the end cap, the right side reversed, then the start cap.
func OutlinePoints(points []StrokePoint, opts Options) []geom.Point {
	size := opts.Size
	if len(points) == 0 || size <= 0 {
		return nil
	}
	easing := opts.easing()
	lastIdx := len(points) - 1
	totalLength := points[lastIdx].RunningLength

	taperStart, taperEnd := opts.TaperStart, opts.TaperEnd
	minDistance := math.Pow(size*opts.Smoothing, 2)

	var left, right []geom.Point

	prevPressure := points[0].Pressure
	for _, p := range points[:min(10, len(points))] {
		pressure := p.Pressure
		if opts.SimulatePressure {
			pressure = simulatePressure(prevPressure, p.Distance, size)
		}
		prevPressure = (prevPressure + pressure) / 2
	}

	radius := StrokeRadius(size, opts.Thinning, points[lastIdx].Pressure, easing)
	firstRadius, haveFirst := 0.0, false
	prevVector := points[0].Vector
	pl := points[0].Point
	pr := pl
	tl, tr := pl, pr
	prevSharp := false

	for i, sp := range points {
		pressure := sp.Pressure
		pt, vector, runningLength := sp.Point, sp.Vector, sp.RunningLength

		if i < lastIdx && totalLength-runningLength < minTailLength {
			continue
		}

		if opts.Thinning != 0 {
			if opts.SimulatePressure {
				pressure = simulatePressure(prevPressure, sp.Distance, size)
			}
			radius = StrokeRadius(size, opts.Thinning, pressure, easing)
		} else {
			radius = size / 2
		}
		if !haveFirst {
			firstRadius, haveFirst = radius, true
		}

		ts, te := 1.0, 1.0
		if runningLength < taperStart {
			ts = opts.startEasing()(runningLength / taperStart)
		}
		if totalLength-runningLength < taperEnd {
			te = opts.endEasing()((totalLength - runningLength) / taperEnd)
		}
		radius = math.Max(minRadius, radius*math.Min(ts, te))

		nextVector, nextDpr := vector, 1.0
		if i < lastIdx {
			nextVector = points[i+1].Vector
			nextDpr = vector.Dot(nextVector)
		}
		prevDpr := vector.Dot(prevVector)
		sharp := prevDpr < 0 && !prevSharp
		nextSharp := nextDpr < 0

		// Sharp corners get a half disc on each side.
		if sharp || nextSharp {
			offset := prevVector.Per().Mul(radius)
			step := 1.0 / 13
			for t := 0.0; t <= 1; t += step {
				tl = rotAround(pt.Sub(offset), pt, fixedPi*t)
				left = append(left, tl)
				tr = rotAround(pt.Add(offset), pt, fixedPi*-t)
				right = append(right, tr)
			}
			pl, pr = tl, tr
			if nextSharp {
				prevSharp = true
			}
			continue
		}
		prevSharp = false

		if i == lastIdx {
			offset := vector.Per().Mul(radius)
			left = append(left, pt.Sub(offset))
			right = append(right, pt.Add(offset))
			continue
		}

		offset := nextVector.Lerp(vector, nextDpr).Per().Mul(radius)
		tl = pt.Sub(offset)
		if i <= 1 || pl.Dist2(tl) > minDistance {
			left = append(left, tl)
			pl = tl
		}
		tr = pt.Add(offset)
		if i <= 1 || pr.Dist2(tr) > minDistance {
			right = append(right, tr)
			pr = tr
		}

		prevPressure = pressure
		prevVector = vector
	}

	firstPoint := points[0].Point
	lastPoint := points[lastIdx].Point
	if len(points) == 1 {
		lastPoint = points[0].Point.Add(geom.Pt(1, 1))
	}

	// A single point is drawn as a dot.
	if len(points) == 1 {
		if (taperStart == 0 && taperEnd == 0) || opts.Last {
			r := radius
			if haveFirst && firstRadius != 0 {
				r = firstRadius
			}
			start := firstPoint.Project(firstPoint.Sub(lastPoint).Per().Unit(), -r)
			var dot []geom.Point
			step := 1.0 / 13
			for t := step; t <= 1; t += step {
				dot = append(dot, rotAround(start, firstPoint, fixedPi*2*t))
			}
			return dot
		}
		return nil
	}

	var startCap, endCap []geom.Point

	switch {
	case taperStart != 0:
	case len(left) == 0 || len(right) == 0:
	case opts.CapStart:
		step := 1.0 / 13
		for t := step; t <= 1; t += step {
			startCap = append(startCap, rotAround(right[0], firstPoint, fixedPi*t))
		}
	default:
		corners := left[0].Sub(right[0])
		a, b := corners.Mul(0.5), corners.Mul(0.51)
		startCap = append(startCap,
			firstPoint.Sub(a), firstPoint.Sub(b),
			firstPoint.Add(b), firstPoint.Add(a))
	}

	direction := points[lastIdx].Vector.Neg().Per()
	switch {
	case taperEnd != 0:
		endCap = append(endCap, lastPoint)
	case opts.CapEnd:
		start := lastPoint.Project(direction, radius)
		step := 1.0 / 29
		for t := step; t < 1; t += step {
			endCap = append(endCap, rotAround(start, lastPoint, fixedPi*3*t))
		}
	default:
		endCap = append(endCap,
			lastPoint.Add(direction.Mul(radius)),
			lastPoint.Add(direction.Mul(radius*0.99)),
			lastPoint.Sub(direction.Mul(radius*0.99)),
			lastPoint.Sub(direction.Mul(radius)))
	}

	out := make([]geom.Point, 0, len(left)+len(endCap)+len(right)+len(startCap))
	out = append(out, left...)
	out = append(out, endCap...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return append(out, startCap...)
}

func simulatePressure(prev, distance, size float64) float64 {
	sp := math.Min(1, distance/size)
	rp := math.Min(1, 1-sp)
	return math.Min(1, prev+(rp-prev)*(sp*pressureChangeRate))
}

// rotAround rotates p about c by r radians. Unlike geom.Point.RotateAround
// it does not short-circuit r == 0.
func rotAround(p, c geom.Point, r float64) geom.Point {
	s, co := math.Sin(r), math.Cos(r)
	px, py := p.X-c.X, p.Y-c.Y
	return geom.Point{X: px*co - py*s + c.X, Y: px*s + py*co + c.Y}
}
