package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/flexdock/pkg/model"
)

// Options configures the diagram.
type Options struct {
	// Detailed adds weight and rectangle lines to every label.
	Detailed bool
}

// ToDOT converts the node tree described by frames to Graphviz DOT.
// Splitter frames are skipped.
func ToDOT(frames []model.Frame, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph layout {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"monospace\", fontsize=12];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	var edges []string
	for _, f := range frames {
		if f.Type == "splitter" {
			continue
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", f.ID, strings.Join(attrs(f, opts), ", "))
		if f.Parent != "" {
			edges = append(edges, fmt.Sprintf("  %q -> %q;\n", f.Parent, f.ID))
		}
	}

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func label(f model.Frame, detailed bool) string {
	head := f.Type
	if f.Name != "" {
		head += " " + f.Name
	}
	lines := []string{head, f.ID}
	if detailed {
		if f.Type != "tab" {
			lines = append(lines, fmt.Sprintf("weight: %g", f.Weight))
		}
		lines = append(lines, f.Rect.String())
	}
	return strings.Join(lines, "\n")
}

func attrs(f model.Frame, opts Options) []string {
	a := []string{fmt.Sprintf("label=%q", label(f, opts.Detailed))}
	switch f.Type {
	case "row":
		a = append(a, "shape=box")
	case "tabset":
		style := "rounded"
		if f.Active {
			style += ",bold"
		}
		if f.Maximized {
			style += ",dashed"
		}
		a = append(a, "shape=box", fmt.Sprintf("style=%q", style))
	case "tab":
		a = append(a, "shape=ellipse")
		if f.Selected {
			a = append(a, "style=filled", "fillcolor=lightgrey")
		}
	}
	return a
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG.
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

// normalizeViewBox replaces Graphviz's pt-sized root element with a
// pixel-sized one anchored at the origin.
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
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
