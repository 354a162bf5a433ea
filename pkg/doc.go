// Package pkg holds the hexboard libraries.
//
// # Overview
//
// hexboard draws hexagons the way a whiteboard does: every outline is a
// pressure-sensitive freehand stroke through jittered corners, seeded by the
// shape id so a shape always looks the same. Pages of shapes are synced to a
// block store and rendered to SVG, PNG and Graphviz.
//
// The libraries stack bottom-up:
//
//  1. [geom], [rng], [freehand], [svgpath] - points and polygons, seeded
//     randomness, the stroke outline algorithm, SVG path data
//  2. [shapes/style], [shapes/hexagon] - shape styles and hexagon geometry
//  3. [board] - pages, shapes and bindings, and their sync to a block store
//  4. [render] - SVG, PNG and binding-graph renderers
//  5. [pipeline] - validated, cached hexagon and page rendering
//
// Supporting packages: [cache] (file, Redis and null caches), [config] (TOML
// settings), [errors] (coded errors), [httputil] (JSON API plumbing),
// [observability] (hooks) and [buildinfo] (version stamps).
//
// # Data Flow
//
//	canvas edits ─→ board.Syncer ─→ BlockStore (memory, MongoDB)
//	                                    │
//	                              board.Page
//	                                    ↓
//	                 pipeline.Runner ─→ render/sink, render/bindings
//	                                    ↓
//	                          SVG · PNG · DOT artifacts (cached)
package pkg
