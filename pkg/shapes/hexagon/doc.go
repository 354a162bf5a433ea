// Package hexagon generates the geometry of the board's hexagon shape.
//
// # Geometry
//
// [Points] returns the six corners of a hexagon inscribed in a bounding box:
// two points on each horizontal edge at 1/5 and 4/5 of the width, and the
// left and right apexes at half height. The polygon can be grown or shrunk
// with an offset and rotated about the box center. [Centroid] returns the
// label anchor, which is the mean of the first three corners rather than the
// polygon's true centroid.
//
// # Hand-drawn outline
//
// [DrawPoints] jitters each corner by a few pixels, seeded by the shape id,
// interpolates 32 samples along every edge and starts the outline at a
// seeded edge. The first edge is repeated at the end so the stroke closes
// without a visible seam. The same id, size and stroke width always give the
// same samples.
//
// [Renderer] turns those samples into SVG path data: [Renderer.Path] is the
// filled ink outline and [Renderer.IndicatorPath] is the open centreline
// used for selection highlights. The package-level [Path], [IndicatorPath]
// and [GetStrokeInfo] use a Renderer built from package freehand and the
// default style palette.
//
// All functions are pure and safe for concurrent use.
package hexagon
