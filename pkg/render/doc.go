// Package render turns laid-out layouts into pictures.
//
// Rendering works on the frame list produced by model.Model.Frames, so a
// cached frame list can be rendered again without rebuilding the model.
// The output formats live in subpackages:
//
//   - [sink]: SVG, PNG, JSON and terminal text renderings of frames
//   - [nodelink]: the node tree as a Graphviz diagram (DOT and SVG)
//
// This package itself holds the format names and [AssignTabRects], which
// places the tab buttons inside every tab strip before frames are taken.
//
//	render.AssignTabRects(m, 96)
//	svg := sink.RenderSVG(m.Frames(), 800, 600, sink.WithLabels())
//
// [sink]: github.com/matzehuels/flexdock/pkg/render/sink
// [nodelink]: github.com/matzehuels/flexdock/pkg/render/nodelink
package render
