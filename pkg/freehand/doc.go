// Package freehand turns a sequence of input samples into the outline of a
// pressure-sensitive, hand-drawn ink stroke.
//
// There are two entry points. [StrokePoints] streamlines the raw input into a
// centreline of [StrokePoint] values that carry pressure, direction and
// running length. [OutlinePoints] expands that centreline into a closed
// polygon by offsetting each point left and right by a pressure-dependent
// radius and adding caps at both ends. [Stroke] runs both.
//
// The polygon is meant to be filled, typically after converting it to a
// smooth SVG path with package svgpath.
//
// All functions are pure and safe to call concurrently.
package freehand
