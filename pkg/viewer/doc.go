// Package viewer keeps the display state of one DAG view.
//
// A [Viewer] remembers the last non-empty DOT document and the last applied
// [config.Options]. Each [Viewer.Update] or [Viewer.Reflow] produces a
// [Frame]: the document with layout options injected, the container size,
// the zoom toggle and the current [Viewport]. Frames with no document are
// drawn as a placeholder by the caller.
//
// Pan and zoom only act when the zoom toggle is on. The viewport returns to
// the fitted view whenever the frame content changes.
//
// [State] is the persisted form; stores save it between requests and
// [Restore] brings a viewer back.
package viewer
