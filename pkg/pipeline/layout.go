package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
	"github.com/matzehuels/flexdock/pkg/render"
)

// LayoutModel tidies m when requested, lays it out in the frame, places
// the tab buttons and returns the frames with the number of nodes the
// tidy pass removed. opts must be validated.
func LayoutModel(ctx context.Context, m *model.Model, opts Options) ([]model.Frame, int) {
	removed := 0
	if opts.Tidy {
		before := m.Len()
		m.Tidy()
		removed = max(0, before-m.Len())
		observability.Layout().OnTidy(ctx, removed)
	}

	start := time.Now()
	m.Layout(geom.NewRect(0, 0, opts.Width, opts.Height))
	render.AssignTabRects(m, opts.TabWidth)
	frames := m.Frames()
	observability.Layout().OnLayout(ctx, opts.Width, opts.Height, len(frames), time.Since(start))
	return frames, removed
}
