package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/flexdock/pkg/observability"
)

func TestSpinnerDraws(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Docking...")
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	if !strings.Contains(buf.String(), "Docking...") {
		t.Errorf("spinner output %q lacks the message", buf.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
}

func TestSpinnerClearsVisibleWidth(t *testing.T) {
	var buf bytes.Buffer
	s := startSpinner(context.Background(), &buf, "Docking...")
	time.Sleep(250 * time.Millisecond)
	s.Stop()

	// One glyph cell, a space and the message; styling and the multi-byte
	// glyph must not widen the blanking run.
	want := "\r" + strings.Repeat(" ", 1+1+len("Docking...")) + "\r"
	if got := buf.String(); !strings.HasSuffix(got, want) {
		t.Errorf("spinner output ends with %q, want %q", got[max(0, len(got)-len(want)-4):], want)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := startSpinner(ctx, &bytes.Buffer{}, "Testing with context...")
	cancel()

	deadline := time.Now().Add(time.Second)
	for !s.Cancelled() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !s.Cancelled() {
		t.Error("spinner not cancelled after context cancellation")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := startSpinner(context.Background(), &bytes.Buffer{}, "stop")
	s.Stop()
	s.Stop()
	s.StopWithError("Failed!")
}

type countingHooks struct {
	observability.NoopLayoutHooks
	layouts int
}

func (h *countingHooks) OnLayout(context.Context, int, int, int, time.Duration) { h.layouts++ }

func TestSpinnerFollowsStages(t *testing.T) {
	t.Cleanup(observability.Reset)
	prev := &countingHooks{}
	observability.SetLayoutHooks(prev)

	ctx := context.Background()
	s := startSpinner(ctx, &bytes.Buffer{}, "Loading layout...").follow()

	tests := []struct {
		name string
		fire func()
		want string
	}{
		{"load", func() { observability.Layout().OnLoad(ctx, 7, 0, nil) }, "Laying out 7 nodes..."},
		{"failed load keeps message", func() { observability.Layout().OnLoad(ctx, 0, 0, errors.New("bad")) }, "Laying out 7 nodes..."},
		{"layout", func() { observability.Layout().OnLayout(ctx, 800, 600, 5, 0) }, "Rendering 5 frames at 800x600..."},
		{"render", func() { observability.Layout().OnRender(ctx, "svg", 2048, 0, nil) }, "Rendered svg (2.0 KiB)"},
	}
	for _, tt := range tests {
		tt.fire()
		if got := s.Message(); got != tt.want {
			t.Errorf("%s: Message() = %q, want %q", tt.name, got, tt.want)
		}
	}
	s.Stop()

	if prev.layouts != 1 {
		t.Errorf("previous hooks saw %d layouts, want 1", prev.layouts)
	}
	if observability.Layout() != observability.LayoutHooks(prev) {
		t.Error("Stop did not restore the previous hooks")
	}
}
