package cli

import (
	"math"
	"strings"

	"github.com/matzehuels/dagviewer/pkg/render"
)

// cellAspect is how many times taller a terminal cell is than wide.
const cellAspect = 2.0

// canvas is a character grid a layout is drawn onto.
type canvas struct {
	cols, rows int
	cells      [][]rune
}

func newCanvas(cols, rows int) *canvas {
	c := &canvas{cols: max(cols, 0), rows: max(rows, 0)}
	c.cells = make([][]rune, c.rows)
	for i := range c.cells {
		c.cells[i] = []rune(strings.Repeat(" ", c.cols))
	}
	return c
}

func (c *canvas) set(col, row int, r rune) {
	if row < 0 || row >= c.rows || col < 0 || col >= c.cols {
		return
	}
	c.cells[row][col] = r
}

func (c *canvas) text(col, row int, s string) {
	for i, r := range []rune(s) {
		c.set(col+i, row, r)
	}
}

func (c *canvas) lines() []string {
	out := make([]string, c.rows)
	for i, row := range c.cells {
		out[i] = strings.TrimRight(string(row), " ")
	}
	return out
}

// projection maps layout points onto canvas cells, keeping the drawing's
// aspect ratio and centring the visible window.
type projection struct {
	originX, originY float64 // window top-left in points
	unit             float64 // points per column
	offX, offY       float64 // centring offset in cells
}

func newProjection(l *render.Layout, win render.Window, cols, rows int) projection {
	if win.W <= 0 || win.H <= 0 {
		win = render.Window{W: 1, H: 1}
	}
	wx, wy := win.X*l.Width, win.Y*l.Height
	ww, wh := win.W*l.Width, win.H*l.Height

	unit := math.Max(ww/float64(max(cols, 1)), wh/(float64(max(rows, 1))*cellAspect))
	if unit <= 0 {
		unit = 1
	}
	return projection{
		originX: wx,
		originY: wy,
		unit:    unit,
		offX:    (float64(cols) - ww/unit) / 2,
		offY:    (float64(rows) - wh/(unit*cellAspect)) / 2,
	}
}

func (p projection) cell(pt render.Point) (col, row int) {
	x := (pt.X-p.originX)/p.unit + p.offX
	y := (pt.Y-p.originY)/(p.unit*cellAspect) + p.offY
	return int(math.Floor(x)), int(math.Floor(y))
}

// rasterize draws the part of l inside win onto a cols x rows grid. Edges
// are dotted lines through their control points; nodes are boxed labels
// drawn over them.
func rasterize(l *render.Layout, win render.Window, cols, rows int) []string {
	c := newCanvas(cols, rows)
	if l == nil || l.Width <= 0 || l.Height <= 0 {
		return c.lines()
	}
	p := newProjection(l, win, cols, rows)

	for _, e := range l.Edges {
		for i := 1; i < len(e.Points); i++ {
			drawSegment(c, p, e.Points[i-1], e.Points[i])
		}
		if n := len(e.Points); n > 0 {
			col, row := p.cell(e.Points[n-1])
			c.set(col, row, '•')
		}
	}

	for _, n := range l.Nodes {
		drawNode(c, p, n)
	}
	return c.lines()
}

func drawSegment(c *canvas, p projection, a, b render.Point) {
	c0, r0 := p.cell(a)
	c1, r1 := p.cell(b)
	steps := max(abs(c1-c0), abs(r1-r0), 1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		col := c0 + int(math.Round(t*float64(c1-c0)))
		row := r0 + int(math.Round(t*float64(r1-r0)))
		c.set(col, row, '·')
	}
}

func drawNode(c *canvas, p projection, n render.NodeBox) {
	left, top := p.cell(render.Point{X: n.X - n.Width/2, Y: n.Y - n.Height/2})
	right, bottom := p.cell(render.Point{X: n.X + n.Width/2, Y: n.Y + n.Height/2})
	_, mid := p.cell(render.Point{X: n.X, Y: n.Y})

	label := n.Label
	if label == "" {
		label = n.ID
	}

	if bottom-top < 2 || right-left < 2 {
		s := "[" + label + "]"
		center, _ := p.cell(render.Point{X: n.X, Y: n.Y})
		c.text(center-len([]rune(s))/2, mid, s)
		return
	}

	for col := left + 1; col < right; col++ {
		c.set(col, top, '─')
		c.set(col, bottom, '─')
	}
	for row := top + 1; row < bottom; row++ {
		c.set(left, row, '│')
		c.set(right, row, '│')
		for col := left + 1; col < right; col++ {
			c.set(col, row, ' ')
		}
	}
	c.set(left, top, '╭')
	c.set(right, top, '╮')
	c.set(left, bottom, '╰')
	c.set(right, bottom, '╯')

	inner := right - left - 1
	r := []rune(label)
	if len(r) > inner {
		if inner > 1 {
			r = append(r[:inner-1], '…')
		} else {
			r = r[:inner]
		}
	}
	c.text(left+1+(inner-len(r))/2, mid, string(r))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
