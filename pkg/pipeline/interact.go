package pipeline

import (
	"context"
	"fmt"

	errs "github.com/matzehuels/flexdock/pkg/errors"
	"github.com/matzehuels/flexdock/pkg/geom"
	"github.com/matzehuels/flexdock/pkg/model"
	"github.com/matzehuels/flexdock/pkg/observability"
)

// =============================================================================
// Actions
// =============================================================================

// Apply runs actions in order and stops at the first failure, returning how
// many were applied.
func Apply(ctx context.Context, m *model.Model, actions ...model.Action) (int, error) {
	for i, a := range actions {
		err := m.DoAction(a)
		observability.Layout().OnAction(ctx, string(a.Type), err)
		if err != nil {
			return i, fmt.Errorf("action %d (%s): %w", i, a.Type, err)
		}
	}
	return len(actions), nil
}

// =============================================================================
// Drop
// =============================================================================

// DropRequest describes a drag released at (X, Y). Exactly one of Node (an
// existing tab or tab set) and New (attributes of a node to create) is set.
type DropRequest struct {
	Node string           `json:"node,omitempty"`
	New  model.Attributes `json:"new,omitempty"`
	X    int              `json:"x"`
	Y    int              `json:"y"`
}

// DropOutcome reports where a drag landed.
type DropOutcome struct {
	Dropped  bool      `json:"dropped"`
	Target   string    `json:"target,omitempty"`
	Location string    `json:"location,omitempty"`
	Index    int       `json:"index"`
	Outline  geom.Rect `json:"outline,omitzero"`
	Class    string    `json:"class,omitempty"`
}

// OutcomeOf describes a resolved drop target that has not been performed.
func OutcomeOf(info *model.DropInfo) DropOutcome {
	if info == nil {
		return DropOutcome{Index: -1}
	}
	return DropOutcome{
		Target:   info.Node.ID(),
		Location: info.Location.String(),
		Index:    info.Index,
		Outline:  info.Rect,
		Class:    info.ClassName,
	}
}

// startDrag lays m out and begins the drag described by req.
func startDrag(ctx context.Context, m *model.Model, opts *Options, req DropRequest) (*model.DragSession, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if (req.Node == "") == (req.New == nil) {
		return nil, errs.New(errs.ErrCodeInvalidInput, "drop needs exactly one of node and new")
	}
	LayoutModel(ctx, m, *opts)
	if req.New != nil {
		return m.StartDragNew(req.New)
	}
	n, ok := m.NodeByID(req.Node)
	if !ok {
		return nil, errs.New(errs.ErrCodeNodeNotFound, "no node with id %q", req.Node)
	}
	return m.StartDrag(n)
}

// FindDrop resolves the drop target under the request point without
// changing the model.
func FindDrop(ctx context.Context, m *model.Model, opts Options, req DropRequest) (*model.DropInfo, error) {
	d, err := startDrag(ctx, m, &opts, req)
	if err != nil {
		return nil, err
	}
	defer d.Cancel()
	return d.Move(req.X, req.Y), nil
}

// Drop lays m out in the frame, drags the requested node to (X, Y) and
// performs the drop. A point over no target leaves the model unchanged and
// reports Dropped false.
func Drop(ctx context.Context, m *model.Model, opts Options, req DropRequest) (DropOutcome, error) {
	d, err := startDrag(ctx, m, &opts, req)
	if err != nil {
		return DropOutcome{}, err
	}
	out := OutcomeOf(d.Move(req.X, req.Y))
	dropped, err := d.End()
	action := model.ActionMoveNode
	if req.New != nil {
		action = model.ActionAddNode
	}
	observability.Layout().OnAction(ctx, string(action), err)
	if err != nil {
		return DropOutcome{}, err
	}
	out.Dropped = dropped
	return out, nil
}

// =============================================================================
// Splitters
// =============================================================================

// SplitRequest drags the Index-th splitter of row Row to Position, in
// pixels along the row's axis.
type SplitRequest struct {
	Row      string `json:"row"`
	Index    int    `json:"index"`
	Position int    `json:"position"`
}

// Split lays m out, converts the splitter position into weights and
// applies them. Positions outside the splitter's bounds are clamped.
func Split(ctx context.Context, m *model.Model, opts Options, req SplitRequest) (model.SplitResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return model.SplitResult{}, err
	}
	if req.Row == "" {
		req.Row = m.Root().ID()
	}
	LayoutModel(ctx, m, opts)
	s, err := m.SplitterAt(req.Row, req.Index)
	if err != nil {
		return model.SplitResult{}, err
	}
	lo, hi := model.SplitterBounds(s)
	r, ok := model.CalculateSplit(s, min(max(req.Position, lo), hi))
	if !ok {
		return model.SplitResult{}, errs.New(errs.ErrCodeInvalidInput, "splitter %d of %q cannot move", req.Index, req.Row)
	}
	if _, err := Apply(ctx, m, model.AdjustSplit(r)); err != nil {
		return model.SplitResult{}, err
	}
	return r, nil
}
