// Package svgpath converts outline and centreline points into smooth SVG
// path data.
//
// The path starts with a quadratic curve through the first three points and
// then chains smooth quadratic segments (T) through the midpoints of each
// following pair of points, so every input point after the first acts as a
// control point rather than a vertex.
package svgpath

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/hexboard/pkg/geom"
)

// MinPoints is the fewest points that produce a non-empty path.
const MinPoints = 4

// Op is an SVG path command letter.
type Op byte

// Path commands emitted by [Commands].
const (
	MoveTo    Op = 'M'
	QuadTo    Op = 'Q'
	SmoothTo  Op = 'T'
	ClosePath Op = 'Z'
)

// Command is one decoded path command. Ctrl is the explicit control point
// of a Q command and the reflected (implicit) control point of a T command.
type Command struct {
	Op   Op
	Ctrl geom.Point
	To   geom.Point
}

// Commands returns the commands that [FromStroke] would encode, with the
// implicit control point of each T segment resolved. Renderers that draw
// the path directly, rather than through SVG, use this form.
func Commands(points []geom.Point, closed bool) []Command {
	n := len(points)
	if n < MinPoints {
		return nil
	}
	a, b, c := points[0], points[1], points[2]
	cmds := make([]Command, 0, n)
	cmds = append(cmds,
		Command{Op: MoveTo, To: a},
		Command{Op: QuadTo, Ctrl: b, To: average(b, c)},
	)
	for i := 2; i < n-1; i++ {
		cmds = append(cmds, Command{Op: SmoothTo, Ctrl: points[i], To: average(points[i], points[i+1])})
	}
	if closed {
		cmds = append(cmds, Command{Op: ClosePath})
	}
	return cmds
}

// FromStroke encodes points as SVG path data with two decimal places. A
// closed path ends with Z. Fewer than [MinPoints] points give "".
func FromStroke(points []geom.Point, closed bool) string {
	n := len(points)
	if n < MinPoints {
		return ""
	}
	a, b, c := points[0], points[1], points[2]

	var sb strings.Builder
	sb.Grow(n * 16)
	sb.WriteByte('M')
	writePoint(&sb, a)
	sb.WriteString(" Q")
	writePoint(&sb, b)
	sb.WriteByte(' ')
	writePoint(&sb, average(b, c))
	sb.WriteString(" T")
	for i := 2; i < n-1; i++ {
		writePoint(&sb, average(points[i], points[i+1]))
		sb.WriteByte(' ')
	}
	if closed {
		sb.WriteByte('Z')
	}
	return sb.String()
}

func average(a, b geom.Point) geom.Point {
	return geom.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func writePoint(sb *strings.Builder, p geom.Point) {
	sb.WriteString(Fixed(p.X))
	sb.WriteByte(',')
	sb.WriteString(Fixed(p.Y))
}

// Fixed formats v with exactly two decimals. Exact ties round away from
// zero and negative zero prints as "0.00".
func Fixed(v float64) string {
	if v == 0 {
		v = 0
	}
	// Only multiples of 1/8 can sit exactly on a third-decimal 5.
	if v8 := v * 8; v8 == math.Trunc(v8) && v*4 != math.Trunc(v*4) && math.Abs(v) < 1e15 {
		v = math.Round(v*100) / 100
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
