package pipeline

import (
	"context"
	"fmt"
	"time"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
	"github.com/matzehuels/flexdock/pkg/render"
	"github.com/matzehuels/flexdock/pkg/render/nodelink"
	"github.com/matzehuels/flexdock/pkg/render/sink"
)

// Render produces every format in opts.Formats from frames. opts must be
// validated.
func Render(ctx context.Context, frames []model.Frame, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := RenderFormat(ctx, frames, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat produces a single format.
func RenderFormat(ctx context.Context, frames []model.Frame, format string, opts Options) ([]byte, error) {
	start := time.Now()
	data, err := renderFormat(ctx, frames, format, opts)
	observability.Layout().OnRender(ctx, format, len(data), time.Since(start), err)
	return data, err
}

func renderFormat(ctx context.Context, frames []model.Frame, format string, opts Options) ([]byte, error) {
	w, h := opts.Width, opts.Height
	switch format {
	case render.FormatSVG:
		return sink.RenderSVG(frames, w, h, svgOptions(opts)...), nil
	case render.FormatPNG:
		popts := []sink.PNGOption{sink.WithScale(opts.Scale), sink.WithPNGSVGOptions(svgOptions(opts)...)}
		if opts.Labels {
			popts = append(popts, sink.WithPNGLabels())
		}
		return sink.RenderPNG(frames, w, h, popts...)
	case render.FormatJSON:
		return sink.RenderJSON(frames, w, h)
	case render.FormatText:
		topts := []sink.TextOption{sink.TextSize(opts.TextCols, opts.TextRows)}
		if opts.Overlay != nil {
			topts = append(topts, sink.TextDropTarget(opts.Overlay))
		}
		return []byte(sink.RenderText(frames, w, h, topts...) + "\n"), nil
	case render.FormatDOT:
		return []byte(nodelink.ToDOT(frames, nodelink.Options{Detailed: opts.Labels})), nil
	case render.FormatTree:
		return nodelink.RenderSVG(ctx, nodelink.ToDOT(frames, nodelink.Options{Detailed: opts.Labels}))
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

func svgOptions(opts Options) []sink.SVGOption {
	var s []sink.SVGOption
	if opts.Labels {
		s = append(s, sink.WithLabels())
	}
	if opts.Overlay != nil {
		s = append(s, sink.WithDropTarget(opts.Overlay))
	}
	return s
}
