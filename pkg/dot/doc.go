// Package dot builds Graphviz DOT documents from tabular result sets.
//
// # Building
//
// [Build] reads a [resultset.ResultSet] and returns a document:
//
//	doc := dot.Build(rs)
//
// A "dot" field whose first value is a non-empty string short-circuits the
// builder: the string is returned trimmed. Otherwise every row with a
// non-empty "source" and "target" becomes one edge, in row order. Rows missing
// either endpoint are skipped. Without source and target fields the document
// is empty, which callers treat as "nothing to render".
//
// # Styling fields
//
// Node styling comes from node_*, source_* and target_* fields (color,
// fontcolor, shape, style, label). For each endpoint the role-specific field
// is used when it exists in the batch, the generic node_* field otherwise.
// Declarations accumulate per node and are never overwritten; a later row
// only adds declarations the node does not have yet. Edges take label and
// edge_color, edge_fontcolor, edge_style, edge_penwidth.
//
// Identifiers and labels escape double quotes and newlines only.
//
// # Layout options
//
// [Inject] adds rankdir, splines, overlap, nodesep and ranksep after the
// opening brace unless the document already assigns them, so hand-written
// documents can override formatter settings.
package dot
