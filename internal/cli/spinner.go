package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/flexdock/pkg/observability"
)

// dockFrames cycles a quadrant around the cell, like a panel docking to
// each edge in turn.
var dockFrames = []string{"▖", "▘", "▝", "▗"}

// spinner animates a status line while the pipeline runs. Call follow to
// have the message track the pipeline stages.
type spinner struct {
	w       io.Writer
	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once

	mu      sync.Mutex
	message string
	width   int

	restore observability.LayoutHooks
}

// startSpinner starts animating message on w. The spinner stops by itself
// when ctx is cancelled.
func startSpinner(ctx context.Context, w io.Writer, message string) *spinner {
	sctx, cancel := context.WithCancel(ctx)
	s := &spinner{
		w:       w,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
		message: message,
	}
	go s.run()
	return s
}

func (s *spinner) run() {
	defer close(s.stopped)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clear()
			return
		case <-ticker.C:
			s.mu.Lock()
			line := fmt.Sprintf("%s %s", styleIconSpinner.Render(dockFrames[i%len(dockFrames)]), StyleDim.Render(s.message))
			s.width = max(s.width, lipgloss.Width(line))
			fmt.Fprintf(s.w, "\r%s", line)
			s.mu.Unlock()
		}
	}
}

// set replaces the message shown on the next tick.
func (s *spinner) set(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current message.
func (s *spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// follow registers layout hooks that move the message along with the
// pipeline. Stop puts the previous hooks back.
func (s *spinner) follow() *spinner {
	s.restore = observability.Layout()
	observability.SetLayoutHooks(stageHooks{LayoutHooks: s.restore, s: s})
	return s
}

func (s *spinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Stop ends the animation and clears the line. It is safe to call twice.
func (s *spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		<-s.stopped
		if s.restore != nil {
			observability.SetLayoutHooks(s.restore)
		}
	})
}

// StopWithError stops the spinner and prints message as an error.
func (s *spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the parent context ended the spinner.
func (s *spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// stageHooks forwards every event to the hooks it replaced and updates the
// spinner on the way.
type stageHooks struct {
	observability.LayoutHooks
	s *spinner
}

func (h stageHooks) OnLoad(ctx context.Context, nodes int, d time.Duration, err error) {
	h.LayoutHooks.OnLoad(ctx, nodes, d, err)
	if err == nil {
		h.s.set(fmt.Sprintf("Laying out %d nodes...", nodes))
	}
}

func (h stageHooks) OnLayout(ctx context.Context, width, height, frames int, d time.Duration) {
	h.LayoutHooks.OnLayout(ctx, width, height, frames, d)
	h.s.set(fmt.Sprintf("Rendering %d frames at %dx%d...", frames, width, height))
}

func (h stageHooks) OnRender(ctx context.Context, format string, size int, d time.Duration, err error) {
	h.LayoutHooks.OnRender(ctx, format, size, d, err)
	if err == nil {
		h.s.set(fmt.Sprintf("Rendered %s (%s)", format, formatBytes(int64(size))))
	}
}
