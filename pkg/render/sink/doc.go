// Package sink writes frame lists in concrete output formats.
//
// Every renderer takes the frames of one layout pass together with the
// frame size they were computed for:
//
//	frames := m.Frames()
//	svg := sink.RenderSVG(frames, 800, 600, sink.WithLabels())
//	png, err := sink.RenderPNG(frames, 800, 600, sink.WithScale(2))
//	txt := sink.RenderText(frames, 800, 600, sink.TextSize(100, 30))
//	js, err := sink.RenderJSON(frames, 800, 600)
//
// Only visible frames are drawn unless [WithHidden] is given. A drop target
// from model.Model.FindDropTarget can be overlaid with [WithDropTarget].
package sink
