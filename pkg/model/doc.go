// Package model implements the dockable panel layout tree.
//
// A [Model] owns a tree of [Node] values. Rows split their rectangle among
// their children along an axis that alternates with depth, tab sets stack
// tabs and show one of them, and splitters are transient handles between
// the children of a row. The package computes pixel geometry for every node
// ([Model.Layout]), maps splitter drags back to weights ([CalculateSplit]),
// resolves where a dragged panel would dock ([Model.FindDropTarget]) and
// rewrites the tree when it lands, normalizing it afterwards ([Model.Tidy]).
//
// # Documents
//
// Layouts are loaded from and saved to flat attribute bags:
//
//	{
//	  "global": {"splitterSize": 4},
//	  "layout": {
//	    "type": "row",
//	    "children": [
//	      {"type": "tabset", "weight": 25, "children": [{"type": "tab", "name": "Files"}]},
//	      {"type": "tabset", "weight": 75, "children": [{"type": "tab", "name": "Editor"}]}
//	    ]
//	  }
//	}
//
// [FromJSON] and [FromTOML] accept the same shape. Attributes equal to their
// default are omitted when a model is encoded.
//
// # Concurrency
//
// A Model is not safe for concurrent use. Every operation runs to completion
// on the calling goroutine; callers that share a model must serialize access.
// Geometry read by [Model.FindDropTarget] is the geometry of the most recent
// [Model.Layout] call, so callers re-run layout after every mutation.
package model
