package dot

import "github.com/matzehuels/dagviewer/pkg/resultset"

// Recognized field names.
const (
	FieldDOT    = "dot"
	FieldSource = "source"
	FieldTarget = "target"
	FieldLabel  = "label"
)

// Field prefixes for node styling. A role-specific field (source_*,
// target_*) beats the generic node_* field for that endpoint.
const (
	prefixNode   = "node_"
	prefixSource = "source_"
	prefixTarget = "target_"
)

// nodeStyle maps a styling field suffix to the DOT attribute it sets.
// Order here is the order declarations are emitted in.
type nodeStyle struct {
	suffix string
	attr   string
	escape bool
}

var nodeStyles = []nodeStyle{
	{"color", "fillcolor", false},
	{"fontcolor", "fontcolor", false},
	{"shape", "shape", false},
	{"style", "style", false},
	{"label", "label", true},
}

type edgeStyle struct {
	field string
	attr  string
}

var edgeStyles = []edgeStyle{
	{"edge_color", "color"},
	{"edge_fontcolor", "fontcolor"},
	{"edge_style", "style"},
	{"edge_penwidth", "penwidth"},
}

// fieldIndex locates every recognized field in one batch. Absent fields
// are -1.
type fieldIndex struct {
	source, target, label int

	// Resolved per role: role-specific position if present in the batch,
	// otherwise the generic node_* position.
	srcStyle []int
	tgtStyle []int
	edge     []int

	nodeStyling bool
}

func indexFields(rs *resultset.ResultSet) fieldIndex {
	fi := fieldIndex{
		source:   rs.Index(FieldSource),
		target:   rs.Index(FieldTarget),
		label:    rs.Index(FieldLabel),
		srcStyle: make([]int, len(nodeStyles)),
		tgtStyle: make([]int, len(nodeStyles)),
		edge:     make([]int, len(edgeStyles)),
	}

	for i, s := range nodeStyles {
		generic := rs.Index(prefixNode + s.suffix)
		src := rs.Index(prefixSource + s.suffix)
		tgt := rs.Index(prefixTarget + s.suffix)
		if generic != -1 || src != -1 || tgt != -1 {
			fi.nodeStyling = true
		}
		fi.srcStyle[i] = prefer(src, generic)
		fi.tgtStyle[i] = prefer(tgt, generic)
	}
	for i, s := range edgeStyles {
		fi.edge[i] = rs.Index(s.field)
	}
	return fi
}

func prefer(specific, generic int) int {
	if specific != -1 {
		return specific
	}
	return generic
}
