// Package nodelink draws the node tree of a layout as a Graphviz diagram.
// It works from frames, so cached frame lists can be drawn as well.
//
// Rows become boxes, tab sets rounded boxes and tabs plain ellipses, with
// an edge from every parent to each child. The active tab set is drawn
// bold and selected tabs are filled.
//
//	dot := nodelink.ToDOT(m.Frames(), nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
package nodelink
