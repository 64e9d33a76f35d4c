package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/precedence/pkg/rules"
)

// Output formats accepted by [Render].
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPDF: true,
	FormatPNG: true,
}

// Options configures diagram generation.
type Options struct {
	// Highlight is drawn as a path over the graph.
	Highlight rules.Sequence

	// Title is shown above the diagram when set.
	Title string
}

// ToDOT converts a rule graph to Graphviz DOT source. Items are laid out left
// to right in rule direction. The output is deterministic: nodes are emitted
// in ascending item order and edges in rule order.
func ToDOT(g *rules.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=20, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [color=grey50];\n")
	if opts.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n  labelloc=t;\n", opts.Title)
	}
	buf.WriteString("\n")

	marked := rules.ScopeOf(opts.Highlight)
	for _, it := range g.Items() {
		if marked.Has(it) {
			fmt.Fprintf(&buf, "  %q [fillcolor=lightblue, penwidth=2];\n", it.String())
		} else {
			fmt.Fprintf(&buf, "  %q;\n", it.String())
		}
	}
	// Highlighted items without a record still need a node.
	for _, it := range opts.Highlight {
		if _, ok := g.Lookup(it); !ok {
			fmt.Fprintf(&buf, "  %q [fillcolor=lightyellow, style=\"rounded,filled,dashed\"];\n", it.String())
		}
	}

	buf.WriteString("\n")
	path := pathSteps(opts.Highlight)
	for _, r := range g.Rules() {
		if path[r] {
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", r.Before.String(), r.After.String())
	}

	for i := 1; i < len(opts.Highlight); i++ {
		step := rules.Rule{Before: opts.Highlight[i-1], After: opts.Highlight[i]}
		if ruled(g, step) {
			fmt.Fprintf(&buf, "  %q -> %q [color=blue, penwidth=3, label=%q];\n",
				step.Before.String(), step.After.String(), strconv.Itoa(i))
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [color=red, style=dashed, penwidth=2, label=%q];\n",
				step.Before.String(), step.After.String(), strconv.Itoa(i))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func pathSteps(seq rules.Sequence) map[rules.Rule]bool {
	steps := make(map[rules.Rule]bool, len(seq))
	for i := 1; i < len(seq); i++ {
		steps[rules.Rule{Before: seq[i-1], After: seq[i]}] = true
	}
	return steps
}

func ruled(g *rules.Graph, r rules.Rule) bool {
	rec, ok := g.Lookup(r.Before)
	return ok && rec.Successors.Has(r.After)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// Render produces the diagram of g in the given format.
func Render(g *rules.Graph, opts Options, format string) ([]byte, error) {
	dot := ToDOT(g, opts)
	switch format {
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return RenderSVG(dot)
	case FormatPDF:
		svg, err := RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		return ToPDF(svg)
	case FormatPNG:
		svg, err := RenderSVG(dot)
		if err != nil {
			return nil, err
		}
		return ToPNG(svg, 2.0)
	default:
		return nil, fmt.Errorf("invalid format: %q (must be one of: dot, svg, pdf, png)", format)
	}
}
