// Package render lays out DOT documents with Graphviz and produces the
// artifacts the viewers display.
//
// Layout runs in-process through [github.com/goccy/go-graphviz]; no dot
// binary is needed.
//
//	svg, err := render.RenderSVG(ctx, doc)
//	svg = render.Frame(svg, render.Window{X: .25, Y: .25, W: .5, H: .5}, 800, 600)
//
// [RenderSVG] normalizes the root element to a zero-origin viewBox so that
// [Frame] can express pan and zoom purely as a viewBox change. [RenderPNG]
// rasterizes the whole drawing. [RenderLayout] returns plain geometry for
// renderers that draw themselves, such as the terminal viewer.
//
// [Placeholder] is the empty-state drawing used when no document is
// available.
package render
