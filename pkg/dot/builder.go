package dot

import (
	"strings"

	"github.com/matzehuels/dagviewer/pkg/resultset"
)

// DefaultFontName is used for the graph, node and edge font declarations.
const DefaultFontName = "Splunk Platform Sans, Arial, Helvetica, sans-serif"

const indent = "    "

// Builder turns result sets into DOT documents.
// The zero value is ready to use and writes DefaultFontName.
type Builder struct {
	FontName string
}

// Stats describes what a build produced.
type Stats struct {
	Rows        int  // rows in the batch
	Edges       int  // edge statements emitted
	Nodes       int  // distinct endpoints of emitted edges
	StyledNodes int  // node statements emitted
	Passthrough bool // document came verbatim from the dot field
}

// Build converts rs with the zero Builder.
func Build(rs *resultset.ResultSet) string {
	doc, _ := Builder{}.Build(rs)
	return doc
}

// Build converts rs into a DOT document.
//
// A non-empty string in the first row of a "dot" field is returned trimmed
// and untouched. Otherwise "source" and "target" fields are required; without
// them, or without rows, the document is "". Each row with both endpoints
// non-empty yields one edge statement in row order.
func (b Builder) Build(rs *resultset.ResultSet) (string, Stats) {
	stats := Stats{Rows: rs.Len()}
	if rs.Empty() {
		return "", stats
	}

	if idx := rs.Index(FieldDOT); idx != -1 {
		if s, ok := rs.Rows[0].Cell(idx).(string); ok && strings.TrimSpace(s) != "" {
			stats.Passthrough = true
			return strings.TrimSpace(s), stats
		}
	}

	fi := indexFields(rs)
	if fi.source == -1 || fi.target == -1 {
		return "", stats
	}

	nodes, edges, endpoints := scan(rs, fi)

	font := b.FontName
	if font == "" {
		font = DefaultFontName
	}

	var sb strings.Builder
	sb.WriteString("digraph {\n")
	sb.WriteString(indent + `fontname="` + font + "\";\n")
	sb.WriteString(indent + `node [fontname="` + font + `" style="filled, rounded" shape="box"];` + "\n")
	sb.WriteString(indent + `edge [fontname="` + font + "\"];\n")

	for _, id := range nodes.ids {
		attrs := nodes.sets[id].items
		if len(attrs) == 0 {
			continue
		}
		sb.WriteString(indent + `"` + id + `" [` + strings.Join(attrs, " ") + "];\n")
		stats.StyledNodes++
	}
	for _, e := range edges {
		sb.WriteString(e)
		sb.WriteString("\n")
	}
	sb.WriteString("}")

	stats.Edges = len(edges)
	stats.Nodes = endpoints
	return sb.String(), stats
}

// scan walks the rows once, accumulating node declarations and emitting
// edge statements for rows with both endpoints set. It also reports how
// many distinct endpoints those edges touch.
func scan(rs *resultset.ResultSet, fi fieldIndex) (*nodeTable, []string, int) {
	nodes := newNodeTable()
	seen := map[string]struct{}{}
	var edges []string

	for _, row := range rs.Rows {
		source := row.Text(fi.source)
		target := row.Text(fi.target)
		if source == "" || target == "" {
			continue
		}
		sourceID := EscapeID(source)
		targetID := EscapeID(target)
		seen[sourceID] = struct{}{}
		seen[targetID] = struct{}{}

		if fi.nodeStyling {
			nodes.merge(sourceID, nodeAttrs(row, fi.srcStyle))
			nodes.merge(targetID, nodeAttrs(row, fi.tgtStyle))
		}

		edges = append(edges, edgeStatement(sourceID, targetID, edgeAttrs(row, fi)))
	}
	return nodes, edges, len(seen)
}

func nodeAttrs(row resultset.Row, idx []int) []string {
	var attrs []string
	for i, s := range nodeStyles {
		v := row.Text(idx[i])
		if v == "" {
			continue
		}
		if s.escape {
			v = EscapeLabel(v)
		}
		attrs = append(attrs, s.attr+`="`+v+`"`)
	}
	return attrs
}

func edgeAttrs(row resultset.Row, fi fieldIndex) []string {
	var attrs []string
	if label := row.Text(fi.label); label != "" {
		attrs = append(attrs, `label="`+EscapeLabel(label)+`"`)
	}
	for i, s := range edgeStyles {
		if v := row.Text(fi.edge[i]); v != "" {
			attrs = append(attrs, s.attr+`="`+v+`"`)
		}
	}
	return attrs
}

func edgeStatement(from, to string, attrs []string) string {
	s := indent + `"` + from + `" -> "` + to + `"`
	if len(attrs) > 0 {
		s += " [" + strings.Join(attrs, " ") + "]"
	}
	return s + ";"
}

// attrSet is an insertion-ordered set of declarations.
type attrSet struct {
	items []string
	seen  map[string]struct{}
}

// nodeTable accumulates declarations per node. Declarations are only ever
// added: a later row cannot replace what an earlier row recorded, it can
// only contribute declarations not seen yet for that node.
type nodeTable struct {
	ids  []string
	sets map[string]*attrSet
}

func newNodeTable() *nodeTable {
	return &nodeTable{sets: map[string]*attrSet{}}
}

func (t *nodeTable) merge(id string, attrs []string) {
	if len(attrs) == 0 {
		return
	}
	set, ok := t.sets[id]
	if !ok {
		set = &attrSet{seen: map[string]struct{}{}}
		t.sets[id] = set
		t.ids = append(t.ids, id)
	}
	for _, a := range attrs {
		if _, dup := set.seen[a]; dup {
			continue
		}
		set.seen[a] = struct{}{}
		set.items = append(set.items, a)
	}
}

// NodeAttributes returns the declarations accumulated for each node, keyed
// by escaped identifier, in first-appearance order. It is a read-only view
// used by inspection tooling.
func NodeAttributes(rs *resultset.ResultSet) ([]string, map[string][]string) {
	if rs.Empty() {
		return nil, nil
	}
	fi := indexFields(rs)
	if fi.source == -1 || fi.target == -1 || !fi.nodeStyling {
		return nil, nil
	}

	nodes, _, _ := scan(rs, fi)
	out := make(map[string][]string, len(nodes.ids))
	for _, id := range nodes.ids {
		out[id] = nodes.sets[id].items
	}
	return nodes.ids, out
}
