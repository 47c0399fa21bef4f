package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
	"github.com/matzehuels/flexdock/pkg/render/sink"
)

// viewCommand opens a document in the terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var (
		flags  frameFlags
		output string
	)

	cmd := &cobra.Command{
		Use:   "view [layout.json|layout.toml]",
		Short: "Explore and edit a layout in the terminal",
		Long: `Explore and edit a layout in the terminal.

The frame is drawn as a character grid. Move the pointer with the arrow keys
(or hjkl, shifted for bigger steps) and press enter to pick up the tab, tab set
header or splitter under it; move and press enter again to drop. The pending
drop is outlined while dragging.

Keys:
  enter   pick up / drop          esc  cancel
  a       drag in a new tab       s    select tab under pointer
  m       maximize tab set        x    delete tab under pointer
  t       tidy                    w    write the document
  q       quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			opts, err := c.options(cmd, &flags)
			if err != nil {
				return err
			}
			if err := opts.ValidateAndSetDefaults(); err != nil {
				return err
			}
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			m, err := doc.model(ctx)
			if err != nil {
				return err
			}
			if output == "" && doc.path != stdio {
				output = doc.path
			}

			v := newViewer(ctx, m, opts, output, doc.format)
			final, err := tea.NewProgram(v, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil {
				return err
			}
			if fv, ok := final.(viewer); ok && fv.dirty {
				printWarning("Unsaved changes discarded")
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file written by 'w' (default: the input file)")

	return cmd
}

// =============================================================================
// Viewer model
// =============================================================================

var (
	viewerBarStyle  = lipgloss.NewStyle().Foreground(colorGray)
	viewerModeStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewerErrStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// viewer is the bubbletea model of `flexdock view`. Positions are layout
// pixels; the grid is scaled to the terminal.
type viewer struct {
	ctx    context.Context
	m      *model.Model
	opts   pipeline.Options
	output string
	format string

	frames     []model.Frame
	cols, rows int
	x, y       int

	drag     *model.DragSession
	target   *model.DropInfo
	splitter *model.Node
	split    pipeline.SplitRequest

	status string
	err    error
	dirty  bool
}

// newViewer lays m out. opts must be validated.
func newViewer(ctx context.Context, m *model.Model, opts pipeline.Options, output, format string) viewer {
	v := viewer{
		ctx:    ctx,
		m:      m,
		opts:   opts,
		output: output,
		format: format,
		cols:   pipeline.DefaultTextCols,
		rows:   pipeline.DefaultTextRows,
		x:      opts.Width / 2,
		y:      opts.Height / 2,
	}
	v.relayout()
	return v
}

func (v *viewer) relayout() {
	v.frames, _ = pipeline.LayoutModel(v.ctx, v.m, v.opts)
}

func (v viewer) Init() tea.Cmd {
	return nil
}

func (v viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.cols = max(msg.Width, 10)
		v.rows = max(msg.Height-3, 5)
	case tea.KeyMsg:
		return v.key(msg.String())
	}
	return v, nil
}

func (v viewer) key(k string) (tea.Model, tea.Cmd) {
	v.err = nil
	stepX := max(1, v.opts.Width/v.cols)
	stepY := max(1, v.opts.Height/v.rows)

	switch k {
	case "q", "ctrl+c":
		if v.drag != nil {
			v.drag.Cancel()
		}
		return v, tea.Quit
	case "left", "h":
		v.pointTo(v.x-stepX, v.y)
	case "right", "l":
		v.pointTo(v.x+stepX, v.y)
	case "up", "k":
		v.pointTo(v.x, v.y-stepY)
	case "down", "j":
		v.pointTo(v.x, v.y+stepY)
	case "shift+left", "H":
		v.pointTo(v.x-5*stepX, v.y)
	case "shift+right", "L":
		v.pointTo(v.x+5*stepX, v.y)
	case "shift+up", "K":
		v.pointTo(v.x, v.y-5*stepY)
	case "shift+down", "J":
		v.pointTo(v.x, v.y+5*stepY)
	case "enter", " ":
		v.enter()
	case "esc":
		v.cancel()
	case "a":
		v.dragNew()
	case "s":
		if f, ok := v.under(); ok && f.Type == "tab" {
			v.apply(model.SelectTab(f.ID))
		}
	case "x":
		if f, ok := v.under(); ok && f.Type == "tab" {
			v.apply(model.DeleteTab(f.ID))
		}
	case "m":
		if ts := v.tabSetUnder(); ts != "" {
			v.apply(model.MaximizeToggle(ts))
		}
	case "t":
		before := v.m.Len()
		v.m.Tidy()
		v.relayout()
		v.dirty = v.dirty || v.m.Len() != before
		v.status = fmt.Sprintf("tidy removed %d nodes", before-v.m.Len())
	case "w":
		v.save()
	}
	return v, nil
}

// pointTo moves the pointer, clamped to the frame, and updates the pending
// drop or splitter position.
func (v *viewer) pointTo(x, y int) {
	v.x = min(max(x, 0), v.opts.Width-1)
	v.y = min(max(y, 0), v.opts.Height-1)
	switch {
	case v.drag != nil:
		v.target = v.drag.Move(v.x, v.y)
	case v.splitter != nil:
		v.split.Position = v.x
		if v.splitter.Parent().Orientation() == geom.Vertical {
			v.split.Position = v.y
		}
	}
}

// enter picks up what is under the pointer, or finishes the gesture in
// progress.
func (v *viewer) enter() {
	switch {
	case v.drag != nil:
		dropped, err := v.drag.End()
		v.drag, v.target = nil, nil
		if err != nil {
			v.err = err
			return
		}
		if dropped {
			v.dirty = true
			v.status = "dropped"
		} else {
			v.status = "nothing to drop on"
		}
		v.relayout()
		return
	case v.splitter != nil:
		v.splitter = nil
		r, err := pipeline.Split(v.ctx, v.m, v.opts, v.split)
		if err != nil {
			v.err = err
			return
		}
		v.dirty = true
		v.status = fmt.Sprintf("%s %.1f / %s %.1f", r.Node1, r.Weight1, r.Node2, r.Weight2)
		v.relayout()
		return
	}

	f, ok := v.under()
	if !ok {
		return
	}
	switch f.Type {
	case "splitter":
		s, err := v.m.SplitterAt(f.Parent, (f.Index-1)/2)
		if err != nil {
			v.err = err
			return
		}
		v.splitter = s
		v.split = pipeline.SplitRequest{Row: f.Parent, Index: (f.Index - 1) / 2}
		v.pointTo(v.x, v.y)
		v.status = "moving splitter " + f.ID
	case "tab", "tabset":
		n, found := v.m.NodeByID(f.ID)
		if !found {
			return
		}
		d, err := v.m.StartDrag(n)
		if err != nil {
			v.err = err
			return
		}
		v.drag = d
		v.status = "dragging " + f.ID
		v.pointTo(v.x, v.y)
	}
}

func (v *viewer) dragNew() {
	if v.drag != nil || v.splitter != nil {
		return
	}
	d, err := v.m.StartDragNew(model.Attributes{"type": "tab", "name": "New"})
	if err != nil {
		v.err = err
		return
	}
	v.drag = d
	v.status = "dragging a new tab"
	v.pointTo(v.x, v.y)
}

func (v *viewer) cancel() {
	if v.drag != nil {
		v.drag.Cancel()
	}
	v.drag, v.target, v.splitter = nil, nil, nil
	v.status = "cancelled"
}

func (v *viewer) apply(a model.Action) {
	if _, err := pipeline.Apply(v.ctx, v.m, a); err != nil {
		v.err = err
		return
	}
	v.dirty = true
	v.status = string(a.Type)
	v.relayout()
}

func (v *viewer) save() {
	if v.output == "" {
		v.err = fmt.Errorf("no output file (use --output)")
		return
	}
	data, err := encodeDocument(v.m, v.output, v.format)
	if err == nil {
		err = writeOutput(v.output, data)
	}
	if err != nil {
		v.err = err
		return
	}
	v.dirty = false
	v.status = "wrote " + v.output
}

// under returns the frame under the pointer.
func (v viewer) under() (model.Frame, bool) {
	return hitTest(v.frames, v.x, v.y)
}

// tabSetUnder returns the id of the tab set under the pointer, also when
// the pointer is on one of its tab buttons.
func (v viewer) tabSetUnder() string {
	f, ok := v.under()
	switch {
	case !ok:
		return ""
	case f.Type == "tabset":
		return f.ID
	case f.Type == "tab":
		return f.Parent
	}
	return ""
}

// hitTest finds what a click at (x, y) lands on: a tab button first, then
// a splitter, then the innermost visible tab set.
func hitTest(frames []model.Frame, x, y int) (model.Frame, bool) {
	visible := make(map[string]bool)
	for _, f := range frames {
		if f.Type == "tabset" && f.Visible {
			visible[f.ID] = true
		}
	}
	for _, f := range frames {
		if f.Type == "tab" && visible[f.Parent] && !f.TabRect.IsEmpty() && f.TabRect.Contains(x, y) {
			return f, true
		}
	}
	for _, f := range frames {
		if f.Type == "splitter" && f.Visible && f.Rect.Contains(x, y) {
			return f, true
		}
	}
	var (
		best  model.Frame
		found bool
	)
	for _, f := range frames {
		if f.Type == "tabset" && f.Visible && f.Rect.Contains(x, y) && (!found || f.Depth > best.Depth) {
			best, found = f, true
		}
	}
	return best, found
}

func (v viewer) View() string {
	var b strings.Builder

	mode := "browse"
	switch {
	case v.drag != nil:
		mode = "drag"
	case v.splitter != nil:
		mode = "split"
	}
	title := StyleTitle.Render(appName) + " " + viewerModeStyle.Render(mode)
	if v.dirty {
		title += StyleWarning.Render(" *")
	}
	b.WriteString(title)
	b.WriteString("\n")

	opts := []sink.TextOption{
		sink.TextSize(v.cols, v.rows),
		sink.TextStyled(),
		sink.TextCursor(v.x, v.y),
	}
	if v.target != nil {
		opts = append(opts, sink.TextDropTarget(v.target))
	}
	b.WriteString(sink.RenderText(v.frames, v.opts.Width, v.opts.Height, opts...))
	b.WriteString("\n")

	pos := fmt.Sprintf("(%d, %d)", v.x, v.y)
	if f, ok := v.under(); ok {
		pos += " " + f.Type + " " + f.ID
	}
	if v.target != nil {
		pos += fmt.Sprintf(" → %s of %s", v.target.Location, v.target.Node.ID())
	}
	if v.splitter != nil {
		pos += fmt.Sprintf(" → %d", v.split.Position)
	}
	b.WriteString(viewerBarStyle.Render(pos))
	b.WriteString("\n")

	switch {
	case v.err != nil:
		b.WriteString(viewerErrStyle.Render(v.err.Error()))
	case v.status != "":
		b.WriteString(StyleDim.Render(v.status))
	default:
		b.WriteString(StyleDim.Render("←↓↑→ move  ⏎ pick/drop  esc cancel  a new  m max  x close  t tidy  w write  q quit"))
	}
	return b.String()
}
