// Package bindings renders the bindings of a board page as a node-link
// diagram using Graphviz.
//
// Every shape becomes a node and every binding an edge from its source shape
// to its target. Bindings may name a shape by canvas id or by block id;
// endpoints that match no shape on the page are drawn as dashed grey nodes.
//
//	dot := bindings.ToDOT(page)
//	svg, err := bindings.RenderSVG(ctx, dot)
package bindings

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/hexboard/pkg/board"
)

// ToDOT converts the shapes and bindings of page to Graphviz DOT.
func ToDOT(page *board.Page) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=18, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	shapes := page.SortedShapes()
	byBlock := make(map[string]string, len(shapes))
	known := make(map[string]bool, len(shapes))
	for _, s := range shapes {
		known[s.ID] = true
		if s.AffineID != "" {
			byBlock[s.AffineID] = s.ID
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", s.ID, strings.Join(nodeAttrs(s), ", "))
	}

	resolve := func(id string) string {
		if known[id] {
			return id
		}
		if sid, ok := byBlock[id]; ok {
			return sid
		}
		return id
	}

	var edges []string
	dangling := map[string]bool{}
	for _, key := range slices.Sorted(maps.Keys(page.Bindings)) {
		b := page.Bindings[key]
		if b == nil {
			continue
		}
		from, to := resolve(b.FromID), resolve(b.ToID)
		for _, id := range []string{from, to} {
			if !known[id] && !dangling[id] {
				dangling[id] = true
				fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey, fontcolor=black];\n", id, id)
			}
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q [id=%q];\n", from, to, b.ID))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(s *board.Shape) []string {
	label := s.Label
	if label == "" {
		label = s.ID
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if s.Type == board.ShapeHexagon {
		attrs = append(attrs, "shape=hexagon", `style="filled"`)
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg header with one whose viewBox
// starts at the origin and whose width and height are in user units.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
