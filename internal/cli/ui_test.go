package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func captureUI(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	uiOut = &buf
	t.Cleanup(func() { uiOut = io.Discard })
	fn()
	return buf.String()
}

func TestPrintGraphSummary(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		want   string
	}{
		{"no origin", "", "3 nodes · 2 edges"},
		{"cached", originCached, "3 nodes · 2 edges · cached"},
		{"rendered", originRendered, "3 nodes · 2 edges · rendered"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := captureUI(t, func() { printGraphSummary(3, 2, tt.origin) })
			if strings.TrimSpace(got) != tt.want {
				t.Errorf("printGraphSummary() = %q, want %q", strings.TrimSpace(got), tt.want)
			}
		})
	}
}

func TestStatusMarks(t *testing.T) {
	got := captureUI(t, func() {
		printSuccess("cleared %d", 2)
		printWarning("no graph data")
	})
	for _, want := range []string{"✓ cleared 2", "! no graph data"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
