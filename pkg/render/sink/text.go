package sink

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
)

type cellKind uint8

const (
	cellPlain cellKind = iota
	cellActive
	cellSelected
	cellOutline
	cellCursor
)

var cellStyles = map[cellKind]lipgloss.Style{
	cellActive:   lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true),
	cellSelected: lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("238")),
	cellOutline:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	cellCursor:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
}

// TextOption configures RenderText.
type TextOption func(*textRenderer)

type textRenderer struct {
	cols, rows int
	styled     bool
	drop       *model.DropInfo
	cursor     *[2]int

	cells [][]rune
	kinds [][]cellKind
}

// TextSize sets the grid size in cells (default 80x24).
func TextSize(cols, rows int) TextOption {
	return func(r *textRenderer) { r.cols, r.rows = cols, rows }
}

// TextStyled colors the active tab set, selected tabs and overlays.
func TextStyled() TextOption { return func(r *textRenderer) { r.styled = true } }

// TextDropTarget overlays a pending drop outline.
func TextDropTarget(d *model.DropInfo) TextOption { return func(r *textRenderer) { r.drop = d } }

// TextCursor marks the pointer position, in layout pixels.
func TextCursor(x, y int) TextOption { return func(r *textRenderer) { r.cursor = &[2]int{x, y} } }

// RenderText draws visible tab sets as boxes on a character grid scaled
// from the width x height frame. Each box lists its tabs on the first
// inner line, the selected one in brackets.
func RenderText(frames []model.Frame, width, height int, opts ...TextOption) string {
	r := textRenderer{cols: 80, rows: 24}
	for _, opt := range opts {
		opt(&r)
	}
	if width <= 0 || height <= 0 || r.cols <= 0 || r.rows <= 0 {
		return ""
	}
	r.cells = make([][]rune, r.rows)
	r.kinds = make([][]cellKind, r.rows)
	for y := range r.cells {
		r.cells[y] = []rune(strings.Repeat(" ", r.cols))
		r.kinds[y] = make([]cellKind, r.cols)
	}

	type box struct{ x0, y0, x1, y1, next int }
	boxes := map[string]*box{}
	for _, f := range frames {
		switch f.Type {
		case "tabset":
			if !f.Visible {
				continue
			}
			x0, y0, x1, y1, ok := r.scale(f.Rect, width, height)
			if !ok {
				continue
			}
			kind := cellPlain
			if f.Active {
				kind = cellActive
			}
			r.border(x0, y0, x1, y1, kind, '─', '│', "┌┐└┘")
			if f.Name != "" {
				r.write(x0+2, y0, x1-1, " "+f.Name+" ", kind)
			}
			boxes[f.ID] = &box{x0, y0, x1, y1, x0 + 1}
		case "tab":
			b := boxes[f.Parent]
			if b == nil || b.y0+1 >= b.y1 {
				continue
			}
			label, kind := " "+f.Name+" ", cellPlain
			if f.Selected {
				label, kind = "["+f.Name+"]", cellSelected
			}
			b.next = r.write(b.next, b.y0+1, b.x1-1, label, kind)
		}
	}

	if r.drop != nil {
		if x0, y0, x1, y1, ok := r.scale(r.drop.Rect, width, height); ok {
			r.border(x0, y0, x1, y1, cellOutline, '╌', '╎', "╭╮╰╯")
		}
	}
	if r.cursor != nil {
		x, y := r.cursor[0]*r.cols/width, r.cursor[1]*r.rows/height
		if x >= 0 && x < r.cols && y >= 0 && y < r.rows {
			r.cells[y][x], r.kinds[y][x] = '✛', cellCursor
		}
	}
	return r.String()
}

func (r *textRenderer) scale(rect geom.Rect, width, height int) (x0, y0, x1, y1 int, ok bool) {
	x0 = rect.X * r.cols / width
	y0 = rect.Y * r.rows / height
	x1 = min(rect.Right()*r.cols/width-1, r.cols-1)
	y1 = min(rect.Bottom()*r.rows/height-1, r.rows-1)
	return x0, y0, x1, y1, x0 >= 0 && y0 >= 0 && x1-x0 >= 1 && y1-y0 >= 1
}

func (r *textRenderer) border(x0, y0, x1, y1 int, kind cellKind, h, v rune, corners string) {
	c := []rune(corners)
	for x := x0 + 1; x < x1; x++ {
		r.set(x, y0, h, kind)
		r.set(x, y1, h, kind)
	}
	for y := y0 + 1; y < y1; y++ {
		r.set(x0, y, v, kind)
		r.set(x1, y, v, kind)
	}
	r.set(x0, y0, c[0], kind)
	r.set(x1, y0, c[1], kind)
	r.set(x0, y1, c[2], kind)
	r.set(x1, y1, c[3], kind)
}

// write puts s at (x, y) without passing limit and returns the next column.
func (r *textRenderer) write(x, y, limit int, s string, kind cellKind) int {
	for _, ch := range s {
		if x > limit {
			break
		}
		r.set(x, y, ch, kind)
		x++
	}
	return x
}

func (r *textRenderer) set(x, y int, ch rune, kind cellKind) {
	if y < 0 || y >= r.rows || x < 0 || x >= r.cols {
		return
	}
	r.cells[y][x] = ch
	r.kinds[y][x] = kind
}

func (r *textRenderer) String() string {
	var b strings.Builder
	for y, row := range r.cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		if !r.styled {
			b.WriteString(strings.TrimRight(string(row), " "))
			continue
		}
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && r.kinds[y][x] == r.kinds[y][start] {
				continue
			}
			run := string(row[start:x])
			if st, ok := cellStyles[r.kinds[y][start]]; ok {
				run = st.Render(run)
			}
			b.WriteString(run)
			start = x
		}
	}
	return b.String()
}
