package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/pipeline"
)

// captureStdout redirects the status output for the rest of the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestPrintStats(t *testing.T) {
	tests := []struct {
		name   string
		nodes  int
		frames int
		cached bool
		want   []string
	}{
		{"fresh", 5, 6, false, []string{"5 nodes", "6 frames", "fresh"}},
		{"cached", 5, 6, true, []string{"cached"}},
		{"no counts", 0, 0, false, []string{"fresh"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureStdout(t)
			printStats(tt.nodes, tt.frames, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("printStats() = %q, want %q in it", buf.String(), w)
				}
			}
		})
	}
}

func TestPrintOutcome(t *testing.T) {
	out := pipeline.DropOutcome{
		Target:   "main",
		Location: "right",
		Index:    -1,
		Outline:  geom.Rect{X: 633, Y: 0, Width: 375, Height: 400},
	}

	buf := captureStdout(t)
	printOutcome(out, false)
	if !strings.Contains(buf.String(), "Would drop right of main") {
		t.Errorf("dry run outcome = %q", buf.String())
	}

	buf.Reset()
	out.Location, out.Index = "center", 1
	printOutcome(out, true)
	if !strings.Contains(buf.String(), "Dropped center of main at tab 1") {
		t.Errorf("outcome = %q", buf.String())
	}

	buf.Reset()
	printOutcome(pipeline.DropOutcome{}, false)
	if !strings.Contains(buf.String(), "No drop target") {
		t.Errorf("empty outcome = %q", buf.String())
	}
}

func TestFrameStyle(t *testing.T) {
	tests := []struct {
		name  string
		frame model.Frame
		want  lipgloss.TerminalColor
	}{
		{"hidden", model.Frame{Type: "tab", Selected: true}, colorDim},
		{"splitter", model.Frame{Type: "splitter", Visible: true}, colorGray},
		{"active tab set", model.Frame{Type: "tabset", Visible: true, Active: true}, colorCyan},
		{"selected tab", model.Frame{Type: "tab", Visible: true, Selected: true}, colorGreen},
		{"plain", model.Frame{Type: "row", Visible: true}, colorWhite},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := frameStyle(tt.frame).GetForeground(); got != tt.want {
				t.Errorf("foreground = %v, want %v", got, tt.want)
			}
		})
	}
}
