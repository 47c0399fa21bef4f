package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flexdock/pkg/cache"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
	"github.com/matzehuels/flexdock/pkg/render/sink"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines; the models it is given may not.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner fills nil arguments with a NullCache, the DefaultKeyer and the
// default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the whole pipeline on a JSON or TOML document.
func (r *Runner) Execute(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &Result{DocumentHash: cache.Hash(data)}

	start := time.Now()
	frames, hit, err := r.FramesWithCacheInfo(ctx, res, data, opts)
	if err != nil {
		return nil, err
	}
	res.Frames = frames
	res.Stats.Frames = len(frames)
	res.CacheInfo.LayoutHit = hit
	r.Logger.Info("laid out",
		"nodes", res.Stats.Nodes,
		"frames", len(frames),
		"cached", hit,
		"duration", time.Since(start))

	if err := r.renderInto(ctx, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

// ExecuteModel lays out and renders a live model. The frames are never
// cached; the artifacts are.
func (r *Runner) ExecuteModel(ctx context.Context, m *model.Model, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := &Result{Model: m}

	start := time.Now()
	res.Frames, res.Stats.Removed = LayoutModel(ctx, m, opts)
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Nodes = m.Len()
	res.Stats.Frames = len(res.Frames)
	r.Logger.Debug("laid out model", "nodes", res.Stats.Nodes, "frames", res.Stats.Frames, "duration", res.Stats.LayoutTime)

	if err := r.renderInto(ctx, res, opts); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) renderInto(ctx context.Context, res *Result, opts Options) error {
	h, err := cache.HashJSON(res.Frames)
	if err != nil {
		return fmt.Errorf("hash frames: %w", err)
	}
	res.FramesHash = h

	start := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, res.Frames, res.FramesHash, opts)
	if err != nil {
		return err
	}
	res.Artifacts = artifacts
	res.Stats.RenderTime = time.Since(start)
	res.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered",
		"formats", opts.Formats,
		"cached", hit,
		"duration", res.Stats.RenderTime)
	return nil
}

// FramesWithCacheInfo returns the frames of a document, loading and laying
// it out on a cache miss. On a miss res.Model and the load and layout
// stats are filled in.
func (r *Runner) FramesWithCacheInfo(ctx context.Context, res *Result, data []byte, opts Options) ([]model.Frame, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	key := r.Keyer.FramesKey(res.DocumentHash, opts.FramesKeyOpts())

	if !opts.Refresh {
		if fs, ok := r.lookupFrames(ctx, key, opts); ok {
			return fs.Frames, true, nil
		}
	}

	start := time.Now()
	m, err := Load(ctx, data, "")
	if err != nil {
		return nil, false, fmt.Errorf("load: %w", err)
	}
	res.Model = m
	res.Stats.LoadTime = time.Since(start)

	start = time.Now()
	frames, removed := LayoutModel(ctx, m, opts)
	res.Stats.LayoutTime = time.Since(start)
	res.Stats.Nodes = m.Len()
	res.Stats.Removed = removed

	if encoded, err := sink.RenderJSON(frames, opts.Width, opts.Height); err == nil {
		r.store(ctx, "frames", key, encoded, cache.TTLFrames)
	}
	return frames, false, nil
}

func (r *Runner) lookupFrames(ctx context.Context, key string, opts Options) (sink.FrameSet, bool) {
	data, ok := r.lookup(ctx, "frames", key)
	if !ok {
		return sink.FrameSet{}, false
	}
	fs, err := sink.ReadJSON(data)
	if err != nil || fs.Width != opts.Width || fs.Height != opts.Height {
		r.Logger.Debug("discarding cached frames", "key", cache.Describe(key), "err", err)
		return sink.FrameSet{}, false
	}
	return fs, true
}

// RenderWithCacheInfo renders every requested format, serving the whole
// set from the cache when each format is present. Overlays bypass the
// cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, frames []model.Frame, framesHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	useCache := opts.Overlay == nil && !opts.Refresh

	if useCache {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.lookup(ctx, "artifact", r.Keyer.ArtifactKey(framesHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	artifacts, err := Render(ctx, frames, opts)
	if err != nil {
		return nil, false, err
	}
	if opts.Overlay == nil {
		for format, data := range artifacts {
			r.store(ctx, "artifact", r.Keyer.ArtifactKey(framesHash, opts.ArtifactKeyOpts(format)), data, cache.TTLArtifact)
		}
	}
	return artifacts, false, nil
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", cache.Describe(key), "err", err)
		hit = false
	}
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType)
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType)
	}
	return data, hit
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "key", cache.Describe(key), "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close closes the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
