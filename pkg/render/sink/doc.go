// Package sink renders board pages to image formats.
//
// Only hexagon shapes are drawn. Each one is stroked with its hand-drawn ink
// outline, positioned by the shape's point and rotated about the centre of
// its bounding box. Other shape types are skipped.
//
// # SVG
//
// [RenderSVG] writes one group per shape. The viewBox covers every drawn
// outline plus a margin:
//
//	svg, err := sink.RenderSVG(page, sink.WithIndicators(), sink.WithLabels())
//
// # PNG
//
// [RenderPNG] rasterises the same scene with the gg software renderer. Labels
// are not drawn in PNG output.
//
//	png, err := sink.RenderPNG(page, sink.WithScale(2))
package sink
