package resultset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Input encodings understood by [Read].
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// ErrUnsupportedFormat is returned for input encodings other than JSON and CSV.
var ErrUnsupportedFormat = errors.New("unsupported result set format")

// ReadOptions controls decoding.
type ReadOptions struct {
	// MaxRows caps the number of rows kept. Zero means DefaultMaxRows,
	// a negative value disables the cap.
	MaxRows int
}

func (o ReadOptions) limit() int {
	if o.MaxRows == 0 {
		return DefaultMaxRows
	}
	return o.MaxRows
}

// Read decodes a result set from r in the given format.
func Read(r io.Reader, format string, opts ReadOptions) (*ResultSet, error) {
	var (
		rs  *ResultSet
		err error
	)
	switch format {
	case FormatJSON, "":
		rs, err = ReadJSON(r)
	case FormatCSV:
		rs, err = ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	rs.Truncate(opts.limit())
	return rs, nil
}

// ReadFile decodes the file at path, choosing the format from its extension
// (.csv for CSV, anything else is treated as JSON).
func ReadFile(path string, opts ReadOptions) (*ResultSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rs, err := Read(f, FormatFromPath(path), opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rs, nil
}

// FormatFromPath maps a file extension to an input format.
func FormatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}
	return FormatJSON
}

// ReadJSON decodes one of three JSON shapes:
//
//	{"fields": ["source", {"name": "target"}], "rows": [["a", "b"]]}
//	{"results": [{"source": "a", "target": "b"}]}
//	[{"source": "a", "target": "b"}]
//
// For object rows, fields are ordered by first appearance.
func ReadJSON(r io.Reader) (*ResultSet, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return &ResultSet{}, nil
	}

	if data[0] == '[' {
		var objs []json.RawMessage
		if err := json.Unmarshal(data, &objs); err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		return fromObjects(objs)
	}

	var doc struct {
		Fields  []Field           `json:"fields"`
		Rows    []Row             `json:"rows"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if doc.Fields == nil && doc.Results != nil {
		return fromObjects(doc.Results)
	}
	return &ResultSet{Fields: doc.Fields, Rows: doc.Rows}, nil
}

func fromObjects(objs []json.RawMessage) (*ResultSet, error) {
	rs := &ResultSet{}
	index := map[string]int{}
	records := make([]map[string]any, 0, len(objs))

	for i, raw := range objs {
		keys, values, err := decodeOrdered(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		for _, k := range keys {
			if _, ok := index[k]; !ok {
				index[k] = len(rs.Fields)
				rs.Fields = append(rs.Fields, Field{Name: k})
			}
		}
		records = append(records, values)
	}

	rs.Rows = make([]Row, len(records))
	for i, rec := range records {
		row := make(Row, len(rs.Fields))
		for k, v := range rec {
			row[index[k]] = v
		}
		rs.Rows[i] = row
	}
	return rs, nil
}

// decodeOrdered decodes a JSON object while keeping its key order.
func decodeOrdered(raw json.RawMessage) ([]string, map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, nil, fmt.Errorf("expected object, got %v", tok)
	}

	var keys []string
	values := map[string]any{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("unexpected key %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, nil, fmt.Errorf("field %s: %w", key, err)
		}
		if _, seen := values[key]; !seen {
			keys = append(keys, key)
		}
		values[key] = v
	}
	return keys, values, nil
}

// ReadCSV decodes CSV with a header row. Empty cells stay empty strings.
func ReadCSV(r io.Reader) (*ResultSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return &ResultSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}

	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}
	rs := New(names)

	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(rs.Rows)+1, err)
		}
		row := make(Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		rs.Rows = append(rs.Rows, row)
	}
	return rs, nil
}
