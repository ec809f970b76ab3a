package viewer

import "github.com/matzehuels/dagviewer/pkg/render"

// Frame is one displayable snapshot. A zero Width or Height fills the
// container.
type Frame struct {
	DOT         string   `json:"dot"`
	Key         string   `json:"key,omitempty"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
	ZoomEnabled bool     `json:"zoom_enabled"`
	Viewport    Viewport `json:"viewport"`
}

// Empty reports whether there is nothing to draw; the placeholder is shown
// instead.
func (f Frame) Empty() bool { return f.DOT == "" }

// Window converts the viewport into the render window.
func (f Frame) Window() render.Window {
	x, y, w, h := f.Viewport.Visible()
	return render.Window{X: x, Y: y, W: w, H: h}
}
