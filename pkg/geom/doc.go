// Package geom provides the small 2D value types shared by the shape, stroke
// and render packages.
//
// Coordinates are local shape coordinates with x growing to the right and y
// growing down the page, as in SVG. Under that convention a polygon listed
// left-point, upper-left, upper-right, ... winds clockwise on screen, and the
// edge normal [Point.Per] of such a polygon points outward.
//
// # Types
//
//   - [Point]: a position or displacement
//   - [Size]: a bounding-box width and height
//   - [Polygon]: an ordered, implicitly closed list of points
//   - [Sample]: a point carrying a pressure channel for stroke input
//
// Point and Size encode to JSON as two-element arrays ([x, y] and [w, h]) and
// Sample as [x, y, pressure], matching the board document format.
//
// # Operations
//
// [PointsBetween] interpolates samples between two points, [RotateSlice]
// cyclically rotates a slice, and [OffsetPolygon] grows or shrinks a polygon
// by moving each edge along its normal.
package geom
