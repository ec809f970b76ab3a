// Package pipeline runs the format → frame → render chain shared by the CLI
// and the HTTP service.
//
// # Stages
//
//  1. Format: build a DOT document from a result set ([dot.Builder])
//  2. Frame: inject layout options and size the view ([viewer.Viewer])
//  3. Render: lay out with Graphviz and produce svg, png or dot artifacts
//
// Rendered SVG and PNG are cached by frame content and format. Pan and zoom
// are applied to cached SVG afterwards, so moving the view never triggers
// a new layout.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, rs, pipeline.Options{
//	    Layout:  config.Defaults(),
//	    Formats: []string{"svg"},
//	})
//	svg := result.Artifacts["svg"]
//
// A [viewer.Frame] obtained elsewhere can be rendered directly:
//
//	svg, hit, err := runner.RenderFrame(ctx, frame, pipeline.FormatSVG)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/errors"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 24 * time.Hour

// Options configures one pipeline run.
type Options struct {
	Layout  config.Options `json:"layout"`
	Formats []string       `json:"formats,omitempty"`
	Width   int            `json:"width,omitempty"`
	Height  int            `json:"height,omitempty"`
	// Refresh bypasses cached artifacts (they are still written).
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// ValidateAndSetDefaults fills in defaults and validates the options.
func (o *Options) ValidateAndSetDefaults() error {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Width < 0 || o.Height < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width and height must not be negative")
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}
	return errors.ValidateFormats(o.Formats)
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// DOT is the document as built, before layout options.
	DOT string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains execution statistics.
type Stats struct {
	Rows        int
	Nodes       int
	Edges       int
	Passthrough bool
	FormatTime  time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits.
type CacheInfo struct {
	RenderHit bool // every rendered artifact came from cache
}
