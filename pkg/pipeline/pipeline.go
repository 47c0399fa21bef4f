// Package pipeline runs the decode → tidy → layout → render sequence shared
// by the CLI and the HTTP server.
//
// # Stages
//
//  1. Load: decode a JSON or TOML layout document into a model
//  2. Layout: tidy (optional), lay the model out in the frame, place tab
//     buttons and snapshot the frames
//  3. Render: produce every requested output format from the frames
//
// A [Runner] caches the frames of a document (keyed by the document bytes
// and the frame options) and every artifact (keyed by the frame hash and
// the render options), so rendering an unchanged document again skips both
// the model and the renderers.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Execute(ctx, data, pipeline.Options{
//	    Width:   1280,
//	    Height:  800,
//	    Formats: []string{"svg", "png"},
//	})
//	svg := res.Artifacts["svg"]
//
// Live models (the server and the interactive viewer) use [Runner.ExecuteModel].
package pipeline

import (
	"strconv"
	"time"

	"github.com/matzehuels/flexdock/pkg/cache"
	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultWidth    = 800
	DefaultHeight   = 600
	DefaultTabWidth = render.DefaultTabWidth
	DefaultScale    = 1.0
	DefaultTextCols = 80
	DefaultTextRows = 24

	// MaxDimension bounds the frame size accepted from callers.
	MaxDimension = 16384
)

// Document formats accepted by Load.
const (
	DocumentJSON = "json"
	DocumentTOML = "toml"
)

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It doubles as the body of the HTTP
// render request.
type Options struct {
	Width    int      `json:"width,omitempty" toml:"width"`
	Height   int      `json:"height,omitempty" toml:"height"`
	Formats  []string `json:"formats,omitempty" toml:"formats"`
	Tidy     bool     `json:"tidy,omitempty" toml:"tidy"`
	TabWidth int      `json:"tab_width,omitempty" toml:"tab_width"`
	Labels   bool     `json:"labels,omitempty" toml:"labels"`
	Scale    float64  `json:"scale,omitempty" toml:"scale"`
	TextCols int      `json:"text_cols,omitempty" toml:"text_cols"`
	TextRows int      `json:"text_rows,omitempty" toml:"text_rows"`
	Refresh  bool     `json:"refresh,omitempty" toml:"-"`

	// Overlay is drawn on SVG, PNG and text renderings. Never cached.
	Overlay *model.DropInfo `json:"-" toml:"-"`
}

// ValidateAndSetDefaults checks sizes and formats and fills zero values.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Width < 0 || o.Height < 0 || o.Width > MaxDimension || o.Height > MaxDimension {
		return errs.New(errs.ErrCodeInvalidInput, "frame size %dx%d out of range (0..%d)", o.Width, o.Height, MaxDimension)
	}
	if o.TabWidth < 0 || o.Scale < 0 || o.TextCols < 0 || o.TextRows < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "negative render option")
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.TabWidth == 0 {
		o.TabWidth = DefaultTabWidth
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.TextCols == 0 {
		o.TextCols = DefaultTextCols
	}
	if o.TextRows == 0 {
		o.TextRows = DefaultTextRows
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	return render.ValidateFormats(o.Formats)
}

// FramesKeyOpts returns the cache key inputs of the layout stage.
func (o *Options) FramesKeyOpts() cache.FramesKeyOpts {
	return cache.FramesKeyOpts{
		Width:    o.Width,
		Height:   o.Height,
		TabWidth: o.TabWidth,
		Tidy:     o.Tidy,
	}
}

// ArtifactKeyOpts returns the cache key inputs of one rendered format.
// Scale and text size only affect the formats that use them.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Labels: o.Labels}
	switch format {
	case render.FormatPNG:
		k.Format = format + "@" + strconv.FormatFloat(o.Scale, 'g', -1, 64)
	case render.FormatText:
		k.Format = format + "@" + strconv.Itoa(o.TextCols) + "x" + strconv.Itoa(o.TextRows)
	}
	return k
}

// =============================================================================
// Results
// =============================================================================

// Result holds the outputs of a run.
type Result struct {
	// Model is the laid-out model. It is nil when the frames came from the
	// cache.
	Model *model.Model

	// DocumentHash identifies the input document (empty for ExecuteModel).
	DocumentHash string

	Frames     []model.Frame
	FramesHash string

	// Artifacts maps format names to rendered bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats reports sizes and stage timings.
type Stats struct {
	Nodes      int
	Frames     int
	Removed    int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tells which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	RenderHit bool
}
