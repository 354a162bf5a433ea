// Package render groups the page renderers.
//
// # Sink
//
// The [sink] subpackage draws the hexagons of a page as hand-drawn SVG, and
// as PNG through a software rasterizer. Each hexagon is placed at its page
// point and rotated about its own center. Optional layers add the selection
// indicator centreline and the shape labels.
//
//	svg, err := sink.RenderSVG(page, sink.WithIndicators(), sink.WithLabels())
//	png, err := sink.RenderPNG(page, sink.WithScale(2))
//
// # Bindings
//
// The [bindings] subpackage draws the page's bindings as a Graphviz graph:
// [bindings.ToDOT] writes DOT source and [bindings.RenderSVG] lays it out
// to SVG.
//
// [sink]: github.com/matzehuels/hexboard/pkg/render/sink
// [bindings]: github.com/matzehuels/hexboard/pkg/render/bindings
package render
