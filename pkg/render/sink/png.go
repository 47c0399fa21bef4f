package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
)

// PNGOption configures RenderPNG.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	svgOpts []SVGOption
	scale   float64
	labels  bool
}

// WithPNGSVGOptions passes options to the SVG pass that is rasterized.
func WithPNGSVGOptions(opts ...SVGOption) PNGOption {
	return func(r *pngRenderer) { r.svgOpts = append(r.svgOpts, opts...) }
}

// WithScale multiplies the output size (default 1).
func WithScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// WithPNGLabels draws tab and header names with a bitmap font.
func WithPNGLabels() PNGOption {
	return func(r *pngRenderer) { r.labels = true }
}

// RenderPNG rasterizes the SVG rendering of frames. The rasterizer has no
// text support, so labels are drawn afterwards with basicfont.
func RenderPNG(frames []model.Frame, width, height int, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.scale <= 0 {
		return nil, fmt.Errorf("invalid png scale %v", r.scale)
	}
	w, h := int(float64(width)*r.scale), int(float64(height)*r.scale)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid png size %dx%d", w, h)
	}

	svg := RenderSVG(frames, width, height, r.svgOpts...)
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)

	if r.labels {
		r.drawLabels(img, frames)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pngRenderer) drawLabels(img *image.RGBA, frames []model.Frame) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.RGBA{0x18, 0x18, 0x1b, 0xff}),
		Face: basicfont.Face7x13,
	}
	shown := map[string]bool{}
	for _, f := range frames {
		switch f.Type {
		case "tabset":
			shown[f.ID] = f.Visible
			if f.Visible && !f.Header.IsEmpty() {
				r.label(d, f.Header, f.Name)
			}
		case "tab":
			if shown[f.Parent] && !f.TabRect.IsEmpty() {
				r.label(d, f.TabRect, f.Name)
			}
		}
	}
}

func (r *pngRenderer) label(d *font.Drawer, rect geom.Rect, s string) {
	x := int(float64(rect.X)*r.scale) + 4
	y := int(float64(rect.Y)*r.scale + float64(rect.Height)*r.scale/2 + 4)
	s = fit(s, int(float64(rect.Width)*r.scale)-8, basicfont.Face7x13.Advance)
	if s == "" {
		return
	}
	d.Dot = fixed.P(x, y)
	d.DrawString(s)
}
