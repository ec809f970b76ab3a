package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/dagviewer/pkg/cache"
)

func TestMain(m *testing.M) {
	uiOut = io.Discard
	os.Exit(m.Run())
}

// run executes the root command with args and stdin, returning stdout.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

const rowsJSON = `{"fields":["source","target","label"],"rows":[["web","api","calls"],["api","db",null]]}`

func TestFormatCommand(t *testing.T) {
	out, err := run(t, rowsJSON, "format")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"web" -> "api" [label="calls"];`, `"api" -> "db";`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "rankdir") {
		t.Error("layout options written without --inject")
	}
}

func TestFormatCommand_Inject(t *testing.T) {
	out, err := run(t, rowsJSON, "format", "--inject", "--rankdir", "lr", "-")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `rankdir="LR";`) {
		t.Errorf("rankdir not injected:\n%s", out)
	}
	if !strings.Contains(out, `ranksep="0.4";`) {
		t.Errorf("unset flags should keep defaults:\n%s", out)
	}
}

func TestFormatCommand_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "edges.csv")
	if err := os.WriteFile(path, []byte("source,target\na,b\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, "", "format", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `"a" -> "b";`) {
		t.Errorf("output:\n%s", out)
	}
}

func TestFormatCommand_InvalidRankDir(t *testing.T) {
	if _, err := run(t, rowsJSON, "format", "--inject", "--rankdir", "XY"); err == nil {
		t.Error("expected error for invalid rankdir")
	}
}

func TestRenderCommand_DOT(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "graph.dot")

	if _, err := run(t, rowsJSON, "render", "-f", "dot", "-o", out, "--zoom=false"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	doc := string(data)
	if !strings.Contains(doc, `rankdir="TB";`) || !strings.Contains(doc, `"web" -> "api"`) {
		t.Errorf("rendered dot:\n%s", doc)
	}
}

func TestRenderCommand_InvalidFormat(t *testing.T) {
	if _, err := run(t, rowsJSON, "render", "-f", "gif"); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestCachePathCommand(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "dagviewer.toml")
	cacheDir := filepath.Join(t.TempDir(), "renders")
	if err := os.WriteFile(cfgPath, []byte("[cache]\nbackend = \"file\"\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "", "cache", "path", "--config", cfgPath)
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(out); got != filepath.ToSlash(cacheDir) {
		t.Errorf("cache path = %q, want %q", got, cacheDir)
	}
}

func TestCacheClearCommand(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "renders")
	t.Setenv("DAGVIEWER_CACHE_DIR", cacheDir)

	fc, err := cache.NewFileCache(cacheDir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"one", "two"} {
		if err := fc.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	if _, err := run(t, "", "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := fc.Get(ctx, "one"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "png", []string{"png"}},
		{"multiple formats", "svg,png,dot", []string{"svg", "png", "dot"}},
		{"normalized", " SVG , Dot", []string{"svg", "dot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, parseFormats(tt.input)); diff != "" {
				t.Errorf("parseFormats(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		formats []string
		want    map[string]string
	}{
		{"default base", "", []string{"svg"}, map[string]string{"svg": "edges.svg"}},
		{"single explicit", "out/g.svg", []string{"svg"}, map[string]string{"svg": "out/g.svg"}},
		{"multiple from base", "out/g.svg", []string{"svg", "png"}, map[string]string{"svg": "out/g.svg", "png": "out/g.png"}},
		{"multiple default", "", []string{"png", "dot"}, map[string]string{"png": "edges.png", "dot": "edges.dot"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.output, "edges", tt.formats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("outputPaths mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
