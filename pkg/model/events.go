package model

import "github.com/matzehuels/flexdock/pkg/geom"

// Event names a notification a node can emit.
type Event int

const (
	// EventResize fires on a tab whose rectangle changed during layout.
	EventResize Event = iota
	// EventVisibility fires when a node becomes visible or hidden.
	EventVisibility
	// EventMaximize fires on a tab set when it is maximized or restored.
	EventMaximize
	// EventClose fires on a tab just before it is removed.
	EventClose

	eventCount
)

func (e Event) String() string {
	switch e {
	case EventResize:
		return "resize"
	case EventVisibility:
		return "visibility"
	case EventMaximize:
		return "maximize"
	case EventClose:
		return "close"
	default:
		return "unknown"
	}
}

// EventParams carries the state that accompanies an event.
type EventParams struct {
	Rect      geom.Rect
	Visible   bool
	Maximized bool
}

// Listener receives node events. Calls are synchronous.
type Listener func(EventParams)

// SetEventListener registers fn for e, replacing any previous listener.
func (n *Node) SetEventListener(e Event, fn Listener) {
	if e < 0 || e >= eventCount {
		return
	}
	n.listeners[e] = fn
}

// RemoveEventListener unregisters the listener for e.
func (n *Node) RemoveEventListener(e Event) {
	if e < 0 || e >= eventCount {
		return
	}
	n.listeners[e] = nil
}

func (n *Node) fire(e Event, p EventParams) {
	if fn := n.listeners[e]; fn != nil {
		fn(p)
	}
}
