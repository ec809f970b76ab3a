package render

import (
	"fmt"
	"html"
	"regexp"
	"strconv"
)

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites Graphviz's root element to a plain
// "0 0 w h" viewBox with matching pixel size.
func normalizeViewBox(svg []byte) []byte {
	_, _, w, h, ok := viewBox(svg)
	if !ok {
		return svg
	}
	return svgTagRe.ReplaceAll(svg, []byte(rootTag(0, 0, w, h, px(w), px(h))))
}

func viewBox(svg []byte) (x, y, w, h float64, ok bool) {
	m := viewBoxRe.FindSubmatch(svg)
	if m == nil {
		return 0, 0, 0, 0, false
	}
	x, _ = strconv.ParseFloat(string(m[1]), 64)
	y, _ = strconv.ParseFloat(string(m[2]), 64)
	w, _ = strconv.ParseFloat(string(m[3]), 64)
	h, _ = strconv.ParseFloat(string(m[4]), 64)
	if w == 0 || h == 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

func px(v float64) string { return fmt.Sprintf("%.0f", v) }

func size(v int) string {
	if v <= 0 {
		return "100%"
	}
	return strconv.Itoa(v)
}

func rootTag(x, y, w, h float64, width, height string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%s" height="%s" preserveAspectRatio="xMidYMid meet">`,
		x, y, w, h, width, height)
}

// Window is the visible part of a drawing, as fractions of its full extent.
// The zero Window shows everything.
type Window struct {
	X, Y, W, H float64
}

func (w Window) full() bool {
	return w.W <= 0 || w.H <= 0 || (w.X == 0 && w.Y == 0 && w.W == 1 && w.H == 1)
}

// Frame fits a rendered SVG into a width x height box showing only win.
// Non-positive sizes fill the container ("100%").
func Frame(svg []byte, win Window, width, height int) []byte {
	_, _, w, h, ok := viewBox(svg)
	if !ok {
		return svg
	}
	if win.full() {
		win = Window{W: 1, H: 1}
	}
	tag := rootTag(win.X*w, win.Y*h, win.W*w, win.H*h, size(width), size(height))
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// PlaceholderText is shown when there is nothing to draw.
const PlaceholderText = "No graph data available"

// PlaceholderDOT draws PlaceholderText through Graphviz, for raster output.
const PlaceholderDOT = `digraph { node [shape=plaintext fontname="sans-serif" fontcolor="#5c6773"]; "` + PlaceholderText + `" }`

// ResetText labels the reset control.
const ResetText = "Reset View"

// Placeholder draws the empty-state frame. It has no reset control: there
// is nothing to pan or zoom.
func Placeholder(width, height int) []byte {
	return []byte(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 400 200" width="%s" height="%s" preserveAspectRatio="xMidYMid meet"><text x="200" y="100" text-anchor="middle" dominant-baseline="middle" font-family="sans-serif" font-size="14" fill="#5c6773">%s</text></svg>`,
		size(width), size(height), html.EscapeString(PlaceholderText)))
}
