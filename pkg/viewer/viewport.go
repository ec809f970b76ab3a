package viewer

import "math"

// Zoom limits relative to the fitted view.
const (
	MinScale = 0.1
	MaxScale = 20.0
)

// Viewport is the pan/zoom state. X and Y are the centre of the visible
// area as fractions of the drawing (0.5, 0.5 is centred). The zero value is
// the fitted view.
type Viewport struct {
	Scale float64 `json:"scale" bson:"scale"`
	X     float64 `json:"x" bson:"x"`
	Y     float64 `json:"y" bson:"y"`
}

// Fitted is the reset view: whole drawing, centred.
func Fitted() Viewport {
	return Viewport{Scale: 1, X: 0.5, Y: 0.5}
}

func (v Viewport) normalized() Viewport {
	if v.Scale == 0 {
		return Fitted()
	}
	return v
}

// IsFitted reports whether v shows the whole drawing unpanned.
func (v Viewport) IsFitted() bool {
	return v.normalized() == Fitted()
}

// Visible returns the visible rectangle as fractions of the drawing:
// top-left corner and extent.
func (v Viewport) Visible() (x, y, w, h float64) {
	v = v.normalized()
	w = 1 / v.Scale
	h = 1 / v.Scale
	return v.X - w/2, v.Y - h/2, w, h
}

// zoom multiplies the scale, keeping the visible centre fixed.
func (v Viewport) zoom(factor float64) Viewport {
	v = v.normalized()
	v.Scale = math.Min(MaxScale, math.Max(MinScale, v.Scale*factor))
	return v
}

// pan shifts the centre by dx, dy fractions of the visible extent. The
// centre stays on the drawing so some of it is always in view.
func (v Viewport) pan(dx, dy float64) Viewport {
	v = v.normalized()
	v.X = clamp01(v.X + dx/v.Scale)
	v.Y = clamp01(v.Y + dy/v.Scale)
	return v
}

func clamp01(f float64) float64 {
	return math.Min(1, math.Max(0, f))
}
