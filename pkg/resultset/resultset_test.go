package resultset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReadJSON_RowMajor(t *testing.T) {
	in := `{"fields": ["source", {"name": "target"}, "label"], "rows": [["a", "b", "x"], ["b", "c"]]}`

	rs, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if diff := cmp.Diff([]string{"source", "target", "label"}, rs.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}
	if rs.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", rs.Len())
	}
	if got := rs.Rows[1].Text(2); got != "" {
		t.Errorf("short row Text(2) = %q, want empty", got)
	}
}

func TestReadJSON_Objects(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"results wrapper", `{"results": [{"target": "b", "source": "a"}, {"source": "b", "target": "c", "label": "l"}]}`},
		{"bare array", `[{"target": "b", "source": "a"}, {"source": "b", "target": "c", "label": "l"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs, err := ReadJSON(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ReadJSON() error: %v", err)
			}
			if diff := cmp.Diff([]string{"target", "source", "label"}, rs.Names()); diff != "" {
				t.Errorf("field order mismatch (-want +got):\n%s", diff)
			}
			src := rs.Index("source")
			if got := rs.Rows[1].Text(src); got != "b" {
				t.Errorf("row 1 source = %q, want b", got)
			}
			if got := rs.Rows[0].Text(rs.Index("label")); got != "" {
				t.Errorf("row 0 label = %q, want empty", got)
			}
		})
	}
}

func TestReadJSON_Empty(t *testing.T) {
	rs, err := ReadJSON(strings.NewReader("  "))
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}
	if !rs.Empty() {
		t.Error("empty input should produce an empty result set")
	}
}

func TestReadCSV(t *testing.T) {
	in := "source,target,edge_color\na,b,red\nb,c\n"

	rs, err := ReadCSV(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadCSV() error: %v", err)
	}
	if rs.Index("edge_color") != 2 {
		t.Errorf("Index(edge_color) = %d, want 2", rs.Index("edge_color"))
	}
	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}
	if got := rs.Rows[1].Text(2); got != "" {
		t.Errorf("missing cell = %q, want empty", got)
	}
}

func TestRead_Truncates(t *testing.T) {
	in := "source,target\na,b\nb,c\nc,d\n"

	rs, err := Read(strings.NewReader(in), FormatCSV, ReadOptions{MaxRows: 2})
	if err != nil {
		t.Fatalf("Read() error: %v", err)
	}
	if rs.Len() != 2 {
		t.Errorf("Len() = %d, want 2", rs.Len())
	}
}

func TestRead_UnsupportedFormat(t *testing.T) {
	if _, err := Read(strings.NewReader(""), "xml", ReadOptions{}); err == nil {
		t.Error("Read() should reject unknown formats")
	}
}

func TestText(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"red", "red"},
		{float64(2), "2"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{"a", "b"}, "a,b"},
		{7, "7"},
	}
	for _, tt := range tests {
		if got := Text(tt.in); got != tt.want {
			t.Errorf("Text(%#v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIndex_Missing(t *testing.T) {
	rs := New([]string{"source"})
	if rs.Index("target") != -1 {
		t.Error("Index() of a missing field should be -1")
	}
	var nilSet *ResultSet
	if nilSet.Index("source") != -1 || nilSet.Len() != 0 {
		t.Error("nil result set should behave as empty")
	}
}

func TestFormatFromPath(t *testing.T) {
	if FormatFromPath("x.CSV") != FormatCSV {
		t.Error("csv extension not detected")
	}
	if FormatFromPath("x.json") != FormatJSON || FormatFromPath("-") != FormatJSON {
		t.Error("non-csv paths should default to JSON")
	}
}
