package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dagviewer/pkg/resultset"
)

// inputDOT marks a DOT document input, selected by --input-format dot or a
// .dot/.gv extension.
const inputDOT = "dot"

// input is what a command was given: either a result set or a DOT document.
type input struct {
	name string // base name without extension, used for default output paths
	rows *resultset.ResultSet
	doc  string
}

func (in *input) isDOT() bool { return in.rows == nil }

// inputOpts are the flags controlling how input is read.
type inputOpts struct {
	format  string
	maxRows int
}

// readInput reads path, or stdin when path is "" or "-". The format comes
// from --input-format, then the extension; stdin defaults to JSON.
func readInput(path string, stdin io.Reader, opts inputOpts) (*input, error) {
	format := strings.ToLower(opts.format)
	name := "graph"

	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		r = f
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

		if format == "" {
			switch strings.ToLower(filepath.Ext(path)) {
			case ".dot", ".gv":
				format = inputDOT
			default:
				format = resultset.FormatFromPath(path)
			}
		}
	}

	if format == inputDOT {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read input: %w", err)
		}
		return &input{name: name, doc: strings.TrimSpace(string(data))}, nil
	}

	rs, err := resultset.Read(r, format, resultset.ReadOptions{MaxRows: opts.maxRows})
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return &input{name: name, rows: rs}, nil
}
