package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dagviewer/pkg/render"
	"github.com/matzehuels/dagviewer/pkg/resultset"
)

func TestSummarizeRows(t *testing.T) {
	rs := resultset.New([]string{"source", "target", "node_color", "target_shape"},
		resultset.Row{"web", "api", "red", "ellipse"},
		resultset.Row{"api", "db", "blue", ""},
		resultset.Row{"", "db", "green", ""},
		resultset.Row{"web", `d"b`, "", ""},
	)

	want := []nodeSummary{
		{ID: "web", Attrs: []string{`fillcolor="red"`}, Out: 2},
		{ID: "api", Attrs: []string{`fillcolor="red"`, `shape="ellipse"`, `fillcolor="blue"`}, In: 1, Out: 1},
		{ID: "db", Attrs: []string{`fillcolor="blue"`}, In: 1},
		{ID: `d\"b`, In: 1},
	}
	if diff := cmp.Diff(want, summarizeRows(rs)); diff != "" {
		t.Errorf("summarizeRows mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeRows_MissingFields(t *testing.T) {
	rs := resultset.New([]string{"from", "to"}, resultset.Row{"a", "b"})
	if got := summarizeRows(rs); got != nil {
		t.Errorf("summarizeRows = %v, want nil", got)
	}
}

func TestSummarizeLayout(t *testing.T) {
	l := &render.Layout{
		Width: 100, Height: 100,
		Nodes: []render.NodeBox{{ID: "a", Label: "a"}, {ID: "b", Label: "Bee"}},
		Edges: []render.EdgePath{{From: "a", To: "b"}, {From: "a", To: "b"}},
	}
	want := []nodeSummary{
		{ID: "a", Out: 2},
		{ID: "b", Attrs: []string{`label="Bee"`}, In: 2},
	}
	if diff := cmp.Diff(want, summarizeLayout(l)); diff != "" {
		t.Errorf("summarizeLayout mismatch (-want +got):\n%s", diff)
	}
}

func TestNodeTable(t *testing.T) {
	out := nodeTable([]nodeSummary{{ID: "web", Attrs: []string{`fillcolor="red"`}, Out: 2}})
	for _, want := range []string{"Node", "Declarations", "web", `fillcolor="red"`} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestInspectCommand(t *testing.T) {
	out, err := run(t, rowsJSON, "inspect")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"web", "api", "db"} {
		if !strings.Contains(out, want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	dotPath := filepath.Join(dir, "deps.gv")
	if err := os.WriteFile(dotPath, []byte("  digraph { a -> b }\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	in, err := readInput(dotPath, nil, inputOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if !in.isDOT() || in.doc != "digraph { a -> b }" || in.name != "deps" {
		t.Errorf("dot input = %+v", in)
	}

	in, err = readInput("-", strings.NewReader(`[{"source":"a","target":"b"}]`), inputOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if in.isDOT() || in.rows.Len() != 1 || in.name != "graph" {
		t.Errorf("stdin input = %+v", in)
	}

	in, err = readInput("", strings.NewReader("digraph { x }"), inputOpts{format: "DOT"})
	if err != nil {
		t.Fatal(err)
	}
	if !in.isDOT() {
		t.Error("--input-format dot not honoured for stdin")
	}

	if _, err := readInput(filepath.Join(dir, "missing.json"), nil, inputOpts{}); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := readInput("-", strings.NewReader("{}"), inputOpts{format: "xml"}); err == nil {
		t.Error("expected error for unsupported input format")
	}
}

func TestReadInput_MaxRows(t *testing.T) {
	in, err := readInput("-", strings.NewReader("source,target\na,b\nb,c\nc,d\n"), inputOpts{format: "csv", maxRows: 2})
	if err != nil {
		t.Fatal(err)
	}
	if in.rows.Len() != 2 {
		t.Errorf("rows = %d, want 2", in.rows.Len())
	}
}
