package render

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/dagviewer/pkg/errors"
)

// formatPlain is Graphviz's line-oriented layout dump. It ships in the same
// core plugin as xdot.
const formatPlain graphviz.Format = "plain"

// run lays out doc and writes it in the requested Graphviz format.
func run(ctx context.Context, doc string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(doc))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRender, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

// RenderSVG lays out a DOT document and returns SVG with a zero-origin
// viewBox, ready for [Frame].
func RenderSVG(ctx context.Context, doc string) ([]byte, error) {
	if doc == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty DOT document")
	}
	svg, err := run(ctx, doc, graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG lays out a DOT document and rasterizes it in-process.
// Pan and zoom do not apply to raster output.
func RenderPNG(ctx context.Context, doc string) ([]byte, error) {
	if doc == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty DOT document")
	}
	return run(ctx, doc, graphviz.PNG)
}

// RenderLayout lays out a DOT document and returns node and edge geometry
// for drawing outside Graphviz (the terminal viewer).
func RenderLayout(ctx context.Context, doc string) (*Layout, error) {
	if doc == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "empty DOT document")
	}
	out, err := run(ctx, doc, formatPlain)
	if err != nil {
		return nil, err
	}
	l, err := ParsePlain(out)
	if err != nil {
		return nil, fmt.Errorf("read layout: %w", err)
	}
	return l, nil
}
