// Package render draws rule graphs as Graphviz node-link diagrams.
//
// # Overview
//
// [ToDOT] turns a [rules.Graph] into DOT source with one node per item and one
// edge per rule. Passing a sequence in [Options.Highlight] marks its items and
// draws the path through them: steps backed by a rule are drawn bold, steps
// that no rule supports are drawn dashed red. This makes it easy to see why a
// sequence was rejected, or which path a repair took.
//
//	dot := render.ToDOT(scoped, render.Options{Highlight: fixed})
//	svg, err := render.RenderSVG(dot)
//
// # Formats
//
// [Render] produces "dot", "svg", "pdf" or "png" output. SVG is rendered in
// process with [github.com/goccy/go-graphviz]. PDF and PNG are converted from
// the SVG with the external rsvg-convert tool (from librsvg).
package render
