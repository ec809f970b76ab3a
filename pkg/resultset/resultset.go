package resultset

import (
	"encoding/json"
	"strconv"
	"strings"
)

// DefaultMaxRows is the row cap applied by the readers when no explicit
// limit is configured. It matches the row count the dashboard host asks for
// in row-major output mode.
const DefaultMaxRows = 10000

// Row is one record of a result set. Cells are positional and line up with
// [ResultSet.Fields]; a row may be shorter than the field list.
type Row []any

// ResultSet is a row-major query result: named fields plus rows of scalar
// cells (string, number, bool, nil or a multi-value array).
type ResultSet struct {
	Fields []Field `json:"fields"`
	Rows   []Row   `json:"rows"`
}

// Field describes one column. The host sends fields either as bare names or
// as objects with a "name" property; both decode into Field.
type Field struct {
	Name string `json:"name"`
}

// UnmarshalJSON accepts both "name" and {"name": "name"}.
func (f *Field) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		f.Name = name
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	f.Name = obj.Name
	return nil
}

// New builds a result set from field names and rows.
func New(fields []string, rows ...Row) *ResultSet {
	rs := &ResultSet{Fields: make([]Field, len(fields)), Rows: rows}
	for i, name := range fields {
		rs.Fields[i] = Field{Name: name}
	}
	return rs
}

// Names returns the field names in column order.
func (rs *ResultSet) Names() []string {
	if rs == nil {
		return nil
	}
	names := make([]string, len(rs.Fields))
	for i, f := range rs.Fields {
		names[i] = f.Name
	}
	return names
}

// Index returns the position of the first field called name, or -1.
func (rs *ResultSet) Index(name string) int {
	if rs == nil {
		return -1
	}
	for i, f := range rs.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Empty reports whether the result set carries no rows.
func (rs *ResultSet) Empty() bool { return rs.Len() == 0 }

// Truncate drops rows beyond max. A non-positive max leaves rs untouched.
func (rs *ResultSet) Truncate(max int) {
	if rs == nil || max <= 0 || len(rs.Rows) <= max {
		return
	}
	rs.Rows = rs.Rows[:max]
}

// Cell returns the raw value at column idx, or nil when idx is negative or
// past the end of the row.
func (r Row) Cell(idx int) any {
	if idx < 0 || idx >= len(r) {
		return nil
	}
	return r[idx]
}

// Text returns the cell at idx as a string. See [Text].
func (r Row) Text(idx int) string {
	return Text(r.Cell(idx))
}

// Text renders a cell value as a string. Nil becomes "", numbers use the
// shortest representation and multi-value cells are joined with commas.
func Text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, len(v))
		for i, p := range v {
			parts[i] = Text(p)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
