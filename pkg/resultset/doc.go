// Package resultset models the row-major query results a dashboard host
// hands to a visualization.
//
// # Shape
//
// A [ResultSet] is a list of named [Field] values plus rows of positional
// cells. Not every row has to populate every field; missing trailing cells
// read as empty.
//
// # Reading
//
// [Read] and [ReadFile] decode JSON or CSV input:
//
//	rs, err := resultset.ReadFile("edges.json", resultset.ReadOptions{})
//
// Rows beyond [DefaultMaxRows] are dropped unless ReadOptions.MaxRows says
// otherwise.
//
// # Cell values
//
// Cells keep their decoded type. [Text] turns any cell into the string form
// used when composing DOT attributes.
package resultset
