package render

import (
	"bufio"
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

const pointsPerInch = 72

// Layout is the geometry of a laid-out graph in points, origin top-left.
type Layout struct {
	Width, Height float64
	Nodes         []NodeBox
	Edges         []EdgePath
}

// NodeBox is a node's bounding box. X and Y are the centre.
type NodeBox struct {
	ID            string
	Label         string
	X, Y          float64
	Width, Height float64
	Shape         string
}

// Point is a coordinate in points.
type Point struct{ X, Y float64 }

// EdgePath is an edge's spline control points in drawing order.
type EdgePath struct {
	From, To string
	Label    string
	Points   []Point
}

// ParsePlain reads Graphviz "plain" output. Coordinates arrive in inches
// with the origin bottom-left; they are converted to points with the origin
// top-left so callers can draw directly.
func ParsePlain(data []byte) (*Layout, error) {
	l := &Layout{}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	line := 0
	for sc.Scan() {
		line++
		f, err := fields(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			if len(f) < 4 {
				return nil, fmt.Errorf("line %d: short graph record", line)
			}
			l.Width = inches(f[2])
			l.Height = inches(f[3])
		case "node":
			if len(f) < 7 {
				return nil, fmt.Errorf("line %d: short node record", line)
			}
			n := NodeBox{
				ID:     f[1],
				X:      inches(f[2]),
				Y:      l.Height - inches(f[3]),
				Width:  inches(f[4]),
				Height: inches(f[5]),
				Label:  f[6],
			}
			if len(f) > 8 {
				n.Shape = f[8]
			}
			l.Nodes = append(l.Nodes, n)
		case "edge":
			e, err := parseEdge(f, l.Height)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			l.Edges = append(l.Edges, e)
		case "stop":
			return l, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return l, nil
}

func parseEdge(f []string, height float64) (EdgePath, error) {
	if len(f) < 4 {
		return EdgePath{}, fmt.Errorf("short edge record")
	}
	n, err := strconv.Atoi(f[3])
	if err != nil {
		return EdgePath{}, fmt.Errorf("edge point count: %w", err)
	}
	if len(f) < 4+2*n {
		return EdgePath{}, fmt.Errorf("edge has %d of %d points", (len(f)-4)/2, n)
	}
	e := EdgePath{From: f[1], To: f[2], Points: make([]Point, n)}
	for i := range n {
		e.Points[i] = Point{
			X: inches(f[4+2*i]),
			Y: height - inches(f[5+2*i]),
		}
	}
	// Optional label and its position follow the points; style and color
	// always close the record.
	if rest := f[4+2*n:]; len(rest) >= 5 {
		e.Label = rest[0]
	}
	return e, nil
}

func inches(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v * pointsPerInch
}

// fields splits a plain-format line on spaces, honouring double-quoted
// strings with backslash escapes.
func fields(s string) ([]string, error) {
	var out []string
	var cur strings.Builder
	inQuote, escaped, have := false, false, false

	for _, r := range s {
		switch {
		case escaped:
			if r == 'n' {
				cur.WriteRune('\n')
			} else {
				cur.WriteRune(r)
			}
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			have = true
		case !inQuote && (r == ' ' || r == '\t'):
			if have {
				out = append(out, cur.String())
				cur.Reset()
				have = false
			}
		default:
			cur.WriteRune(r)
			have = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if have {
		out = append(out, cur.String())
	}
	return out, nil
}

// Node returns the box for id.
func (l *Layout) Node(id string) (NodeBox, bool) {
	for _, n := range l.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return NodeBox{}, false
}
