package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
)

// Palette shared by the SVG and PNG renderers.
const (
	colorBackground = "#f4f4f5"
	colorPanel      = "#ffffff"
	colorBorder     = "#a1a1aa"
	colorActive     = "#2563eb"
	colorStrip      = "#e4e4e7"
	colorHeader     = "#d4d4d8"
	colorTab        = "#d4d4d8"
	colorTabOn      = "#ffffff"
	colorSplitter   = "#c4c4cc"
	colorOutline    = "#3b82f6"
	colorText       = "#18181b"
)

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	labels bool
	hidden bool
	drop   *model.DropInfo
}

// WithLabels draws tab and header names as text elements.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// WithHidden draws frames that are not visible, dimmed.
func WithHidden() SVGOption { return func(r *svgRenderer) { r.hidden = true } }

// WithDropTarget overlays the outline of a pending drop.
func WithDropTarget(d *model.DropInfo) SVGOption { return func(r *svgRenderer) { r.drop = d } }

// RenderSVG draws frames onto a width x height canvas.
func RenderSVG(frames []model.Frame, width, height int, opts ...SVGOption) []byte {
	var r svgRenderer
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		width, height, width, height)
	fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"/>`+"\n", width, height, colorBackground)

	// Tab buttons follow their tab set: unselected tabs are not visible
	// but their buttons are.
	shown := map[string]bool{}
	for _, f := range frames {
		visible := f.Visible
		switch f.Type {
		case "tabset":
			shown[f.ID] = f.Visible
		case "tab":
			visible = shown[f.Parent]
		}
		if !visible && !r.hidden {
			continue
		}
		opacity := 1.0
		if !visible {
			opacity = 0.35
		}
		switch f.Type {
		case "tabset":
			r.tabSet(&buf, f, opacity)
		case "tab":
			r.tab(&buf, f, opacity)
		case "splitter":
			rect(&buf, f.Rect, colorSplitter, "", opacity, fmt.Sprintf(` class="splitter" data-id="%s"`, html.EscapeString(f.ID)))
		}
	}

	if r.drop != nil {
		outline(&buf, r.drop)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) tabSet(buf *bytes.Buffer, f model.Frame, opacity float64) {
	stroke := colorBorder
	if f.Active {
		stroke = colorActive
	}
	rect(buf, f.Rect, colorPanel, stroke, opacity, fmt.Sprintf(` class="tabset" data-id="%s"`, html.EscapeString(f.ID)))
	if !f.Header.IsEmpty() {
		rect(buf, f.Header, colorHeader, "", opacity, "")
		if r.labels {
			text(buf, f.Header, f.Name, opacity)
		}
	}
	if !f.Strip.IsEmpty() {
		rect(buf, f.Strip, colorStrip, "", opacity, "")
	}
}

func (r *svgRenderer) tab(buf *bytes.Buffer, f model.Frame, opacity float64) {
	if f.TabRect.IsEmpty() {
		return
	}
	fill := colorTab
	if f.Selected {
		fill = colorTabOn
	}
	rect(buf, f.TabRect, fill, colorBorder, opacity, fmt.Sprintf(` class="tab" data-id="%s"`, html.EscapeString(f.ID)))
	if r.labels {
		text(buf, f.TabRect, f.Name, opacity)
	}
}

func rect(buf *bytes.Buffer, r geom.Rect, fill, stroke string, opacity float64, extra string) {
	fmt.Fprintf(buf, `  <rect x="%d" y="%d" width="%d" height="%d" fill="%s"`, r.X, r.Y, r.Width, r.Height, fill)
	if stroke != "" {
		fmt.Fprintf(buf, ` stroke="%s" stroke-width="1"`, stroke)
	}
	if opacity < 1 {
		fmt.Fprintf(buf, ` opacity="%.2f"`, opacity)
	}
	fmt.Fprintf(buf, "%s/>\n", extra)
}

func text(buf *bytes.Buffer, r geom.Rect, s string, opacity float64) {
	if s == "" || r.IsEmpty() {
		return
	}
	fmt.Fprintf(buf, `  <text x="%d" y="%d" font-family="monospace" font-size="11" fill="%s" opacity="%.2f">%s</text>`+"\n",
		r.X+4, r.Y+r.Height/2+4, colorText, opacity, html.EscapeString(fit(s, r.Width-8, 7)))
}

func outline(buf *bytes.Buffer, d *model.DropInfo) {
	dash := "6 3"
	if d.ClassName == model.ClassOutlineEdge {
		dash = "2 2"
	}
	fmt.Fprintf(buf, `  <rect class="%s" x="%d" y="%d" width="%d" height="%d" fill="%s" fill-opacity="0.25" stroke="%s" stroke-width="2" stroke-dasharray="%s"/>`+"\n",
		d.ClassName, d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height, colorOutline, colorOutline, dash)
}

// fit truncates s to the number of advance-wide glyphs that fit in width.
func fit(s string, width, advance int) string {
	n := width / advance
	runes := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(runes) <= n {
		return s
	}
	if n == 1 {
		return string(runes[:1])
	}
	return string(runes[:n-1]) + "…"
}
