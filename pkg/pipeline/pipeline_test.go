package pipeline

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flexdock/pkg/cache"
	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
)

const ideJSON = `{
  "global": {"splitterSize": 8},
  "layout": {"type": "row", "id": "root", "children": [
    {"type": "tabset", "id": "left", "weight": 25, "children": [
      {"type": "tab", "id": "files", "name": "Files"}
    ]},
    {"type": "tabset", "id": "main", "weight": 75, "children": [
      {"type": "tab", "id": "editor", "name": "Editor"},
      {"type": "tab", "id": "diff", "name": "Diff"}
    ]}
  ]}
}`

const ideTOML = `
[global]
splitterSize = 8

[layout]
type = "row"
id = "root"

[[layout.children]]
type = "tabset"
id = "only"

[[layout.children.children]]
type = "tab"
id = "t"
name = "Terminal"
`

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(&bytes.Buffer{}, log.Options{}))
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    Options
		wantErr errs.Code
	}{
		{
			name: "defaults",
			opts: Options{},
			want: Options{Width: 800, Height: 600, TabWidth: 100, Scale: 1, TextCols: 80, TextRows: 24, Formats: []string{"svg"}},
		},
		{
			name: "keeps values",
			opts: Options{Width: 10, Height: 20, TabWidth: 5, Scale: 2, Formats: []string{"png", "dot"}},
			want: Options{Width: 10, Height: 20, TabWidth: 5, Scale: 2, TextCols: 80, TextRows: 24, Formats: []string{"png", "dot"}},
		},
		{name: "negative width", opts: Options{Width: -1}, wantErr: errs.ErrCodeInvalidInput},
		{name: "too tall", opts: Options{Height: MaxDimension + 1}, wantErr: errs.ErrCodeInvalidInput},
		{name: "negative scale", opts: Options{Scale: -2}, wantErr: errs.ErrCodeInvalidInput},
		{name: "unknown format", opts: Options{Formats: []string{"pdf"}}, wantErr: errs.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if got := errs.GetCode(err); got != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() code = %q (%v), want %q", got, err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if opts.Width != tt.want.Width || opts.Height != tt.want.Height ||
				opts.TabWidth != tt.want.TabWidth || opts.Scale != tt.want.Scale ||
				opts.TextCols != tt.want.TextCols || opts.TextRows != tt.want.TextRows ||
				strings.Join(opts.Formats, ",") != strings.Join(tt.want.Formats, ",") {
				t.Errorf("ValidateAndSetDefaults() = %+v, want %+v", opts, tt.want)
			}
		})
	}
}

func TestArtifactKeyOpts(t *testing.T) {
	a := Options{Scale: 1, TextCols: 80, TextRows: 24}
	b := Options{Scale: 2, TextCols: 80, TextRows: 24}
	if a.ArtifactKeyOpts("png") == b.ArtifactKeyOpts("png") {
		t.Error("png keys ignore scale")
	}
	if a.ArtifactKeyOpts("svg") != b.ArtifactKeyOpts("svg") {
		t.Error("svg keys depend on scale")
	}
}

func TestDetectDocumentFormat(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{ideJSON, DocumentJSON},
		{"  \n{}", DocumentJSON},
		{ideTOML, DocumentTOML},
		{"", DocumentTOML},
	}
	for _, tt := range tests {
		if got := DetectDocumentFormat([]byte(tt.in)); got != tt.want {
			t.Errorf("DetectDocumentFormat(%.10q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	ctx := context.Background()
	m, err := Load(ctx, []byte(ideTOML), "")
	if err != nil {
		t.Fatalf("Load(toml) error = %v", err)
	}
	if _, ok := m.NodeByID("t"); !ok {
		t.Error("Load(toml) lost tab t")
	}
	if _, err := Load(ctx, []byte(ideJSON), "yaml"); !errs.Is(err, errs.ErrCodeInvalidFormat) {
		t.Errorf("Load(yaml) err = %v, want INVALID_FORMAT", err)
	}
	if _, err := Load(ctx, []byte(`{"layout": {"type": "tab"}}`), ""); err == nil {
		t.Error("Load(tab root) err = nil")
	}
}

func TestExecuteCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(fc)
	opts := Options{Width: 1008, Height: 400, Formats: []string{"svg", "json", "txt", "dot"}, Labels: true}

	first, err := r.Execute(ctx, []byte(ideJSON), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first CacheInfo = %+v, want misses", first.CacheInfo)
	}
	if first.Model == nil || first.Stats.Nodes != 6 {
		t.Errorf("first Model = %v, Nodes = %d, want model with 6 nodes", first.Model, first.Stats.Nodes)
	}
	// root, left, files, splitter, main, editor, diff
	if len(first.Frames) != 7 {
		t.Errorf("len(Frames) = %d, want 7", len(first.Frames))
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s empty", f)
		}
	}
	if !bytes.Contains(first.Artifacts["svg"], []byte(">Editor</text>")) {
		t.Error("svg lacks tab label")
	}

	second, err := r.Execute(ctx, []byte(ideJSON), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second CacheInfo = %+v, want hits", second.CacheInfo)
	}
	if second.Model != nil {
		t.Error("second Model != nil on a layout hit")
	}
	if second.FramesHash != first.FramesHash {
		t.Errorf("FramesHash changed across cache round trip: %s vs %s", second.FramesHash, first.FramesHash)
	}
	if !bytes.Equal(second.Artifacts["svg"], first.Artifacts["svg"]) {
		t.Error("cached svg differs")
	}

	refreshed, err := r.Execute(ctx, []byte(ideJSON), Options{Width: 1008, Height: 400, Formats: opts.Formats, Labels: true, Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheInfo.LayoutHit || refreshed.CacheInfo.RenderHit {
		t.Errorf("refresh CacheInfo = %+v, want misses", refreshed.CacheInfo)
	}
}

func TestExecuteGeometry(t *testing.T) {
	r := quietRunner(nil)
	res, err := r.Execute(context.Background(), []byte(ideJSON), Options{Width: 1008, Height: 400, Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	byID := map[string]model.Frame{}
	for _, f := range res.Frames {
		byID[f.ID] = f
	}
	// 1000 px of weighted space split 25/75.
	if got := byID["left"].Rect; got != geom.NewRect(0, 0, 250, 400) {
		t.Errorf("left = %v", got)
	}
	if got := byID["main"].Rect; got != geom.NewRect(258, 0, 750, 400) {
		t.Errorf("main = %v", got)
	}
	if got := byID["diff"].TabRect; got != geom.NewRect(358, 0, 100, 20) {
		t.Errorf("diff button = %v", got)
	}
}

func TestExecuteModelOverlay(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := quietRunner(fc)

	m, err := model.FromJSON([]byte(ideJSON))
	if err != nil {
		t.Fatal(err)
	}
	m.Layout(geom.NewRect(0, 0, 1008, 400))
	files, _ := m.NodeByID("files")
	drop := m.FindDropTarget(files, 900, 300)
	if drop == nil {
		t.Fatal("FindDropTarget() = nil")
	}

	opts := Options{Width: 1008, Height: 400, Formats: []string{"svg"}, Overlay: drop}
	for i := 0; i < 2; i++ {
		res, err := r.ExecuteModel(ctx, m, opts)
		if err != nil {
			t.Fatal(err)
		}
		if res.CacheInfo.RenderHit {
			t.Errorf("run %d: overlay render served from cache", i)
		}
		if !bytes.Contains(res.Artifacts["svg"], []byte(`class="outline_rect"`)) {
			t.Errorf("run %d: svg lacks drop outline", i)
		}
	}
	if n, _, _ := fc.Stats(); n != 0 {
		t.Errorf("cache entries = %d, want 0 for overlay renders", n)
	}
}

func TestExecuteTidy(t *testing.T) {
	doc := `{"layout": {"type": "row", "children": [
	  {"type": "row", "children": [{"type": "tabset", "id": "ts", "children": [{"type": "tab", "id": "t"}]}]},
	  {"type": "tabset", "id": "empty"}
	]}}`
	res, err := quietRunner(nil).Execute(context.Background(), []byte(doc), Options{Tidy: true, Formats: []string{"json"}})
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.Removed != 2 {
		t.Errorf("Removed = %d, want 2 (wrapper row and empty tab set)", res.Stats.Removed)
	}
}

type countingHooks struct {
	observability.NoopLayoutHooks
	loads, layouts, renders, tidies int
}

func (c *countingHooks) OnLoad(context.Context, int, time.Duration, error)           { c.loads++ }
func (c *countingHooks) OnLayout(context.Context, int, int, int, time.Duration)      { c.layouts++ }
func (c *countingHooks) OnTidy(context.Context, int)                                 { c.tidies++ }
func (c *countingHooks) OnRender(context.Context, string, int, time.Duration, error) { c.renders++ }

type cacheCounter struct {
	observability.NoopCacheHooks
	hits, misses, sets int
}

func (c *cacheCounter) OnCacheHit(context.Context, string)      { c.hits++ }
func (c *cacheCounter) OnCacheMiss(context.Context, string)     { c.misses++ }
func (c *cacheCounter) OnCacheSet(context.Context, string, int) { c.sets++ }

func TestExecuteHooks(t *testing.T) {
	t.Cleanup(observability.Reset)
	hooks, cc := &countingHooks{}, &cacheCounter{}
	observability.SetLayoutHooks(hooks)
	observability.SetCacheHooks(cc)

	fc, _ := cache.NewFileCache(t.TempDir())
	r := quietRunner(fc)
	opts := Options{Formats: []string{"svg", "json"}, Tidy: true}
	for i := 0; i < 2; i++ {
		if _, err := r.Execute(context.Background(), []byte(ideJSON), opts); err != nil {
			t.Fatal(err)
		}
	}

	if hooks.loads != 1 || hooks.layouts != 1 || hooks.tidies != 1 || hooks.renders != 2 {
		t.Errorf("layout hooks = %+v, want one load, layout and tidy, two renders", *hooks)
	}
	// Run 1: frames miss, svg miss (stops the lookup), 3 sets.
	// Run 2: frames hit, svg hit, json hit.
	if cc.misses != 2 || cc.hits != 3 || cc.sets != 3 {
		t.Errorf("cache hooks = %+v, want 2 misses, 3 hits, 3 sets", *cc)
	}
}
