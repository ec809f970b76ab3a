package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dagviewer/pkg/cache"
	"github.com/matzehuels/dagviewer/pkg/dot"
	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/observability"
	"github.com/matzehuels/dagviewer/pkg/render"
	"github.com/matzehuels/dagviewer/pkg/resultset"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

const keyTypeArtifact = "artifact"

// Runner executes the pipeline with caching. It holds no per-run state and
// is safe for concurrent use.
type Runner struct {
	Cache   cache.Cache
	Keyer   cache.Keyer
	Logger  *log.Logger
	Builder dot.Builder
	TTL     time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    DefaultTTL,
	}
}

// Format builds the DOT document for rs.
func (r *Runner) Format(ctx context.Context, rs *resultset.ResultSet) (string, dot.Stats) {
	start := time.Now()
	observability.Pipeline().OnFormatStart(ctx, rs.Len())

	doc, stats := r.Builder.Build(rs)

	d := time.Since(start)
	observability.Pipeline().OnFormatComplete(ctx, stats.Rows, stats.Edges, d, nil)
	r.Logger.Debug("formatted result set",
		"rows", stats.Rows,
		"edges", stats.Edges,
		"nodes", stats.Nodes,
		"styled", stats.StyledNodes,
		"passthrough", stats.Passthrough,
		"duration", d)
	return doc, stats
}

// Execute formats rs and renders every requested format.
func (r *Runner) Execute(ctx context.Context, rs *resultset.ResultSet, opts Options) (*Result, error) {
	start := time.Now()
	doc, stats := r.Format(ctx, rs)
	formatTime := time.Since(start)

	result, err := r.ExecuteDocument(ctx, doc, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.Rows = stats.Rows
	result.Stats.Nodes = stats.Nodes
	result.Stats.Edges = stats.Edges
	result.Stats.Passthrough = stats.Passthrough
	result.Stats.FormatTime = formatTime
	return result, nil
}

// ExecuteDocument renders an existing DOT document (for example a .dot file)
// through the same frame and cache path as Execute.
func (r *Runner) ExecuteDocument(ctx context.Context, doc string, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	v := viewer.New()
	frame := v.Update(doc, opts.Layout)
	if f, ok := v.Reflow(opts.Width, opts.Height); ok {
		frame = f
	} else {
		frame.Width, frame.Height = opts.Width, opts.Height
	}

	result := &Result{DOT: doc, Artifacts: make(map[string][]byte, len(opts.Formats))}
	renderStart := time.Now()
	allHit := true
	for _, format := range opts.Formats {
		data, hit, err := r.renderFrame(ctx, frame, format, opts.Refresh)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		result.Artifacts[format] = data
		if format != FormatDOT {
			allHit = allHit && hit
		}
	}
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = allHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", allHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderFrame produces one artifact for frame. SVG output honours the
// frame's size and viewport; PNG is always the whole drawing; dot returns
// the processed document. Empty frames render the placeholder.
func (r *Runner) RenderFrame(ctx context.Context, frame viewer.Frame, format string) ([]byte, bool, error) {
	return r.renderFrame(ctx, frame, format, false)
}

func (r *Runner) renderFrame(ctx context.Context, frame viewer.Frame, format string, refresh bool) ([]byte, bool, error) {
	if err := errors.ValidateFormat(format); err != nil {
		return nil, false, err
	}

	switch {
	case format == FormatDOT:
		return []byte(frame.DOT), false, nil
	case frame.Empty() && format == FormatSVG:
		return render.Placeholder(frame.Width, frame.Height), false, nil
	}

	doc, key := frame.DOT, frame.Key
	if frame.Empty() {
		doc, key = render.PlaceholderDOT, r.Keyer.FrameKey(render.PlaceholderDOT, false)
	}
	if key == "" {
		key = r.Keyer.FrameKey(doc, frame.ZoomEnabled)
	}

	data, hit, err := r.cached(ctx, key, format, refresh, func() ([]byte, error) {
		if format == FormatPNG {
			return render.RenderPNG(ctx, doc)
		}
		return render.RenderSVG(ctx, doc)
	})
	if err != nil {
		return nil, false, err
	}
	if format == FormatSVG {
		data = render.Frame(data, frame.Window(), frame.Width, frame.Height)
	}
	return data, hit, nil
}

// cached returns the artifact for (frameKey, format), producing and storing
// it on a miss. Cache failures are logged and otherwise ignored.
func (r *Runner) cached(ctx context.Context, frameKey, format string, refresh bool, produce func() ([]byte, error)) ([]byte, bool, error) {
	key := r.Keyer.ArtifactKey(frameKey, cache.ArtifactKeyOpts{Format: format})

	if !refresh {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil {
			r.Logger.Warn("cache read failed", "err", err)
		}
		if hit {
			observability.Cache().OnCacheHit(ctx, keyTypeArtifact)
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, keyTypeArtifact)
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, format)
	data, err := produce()
	observability.Pipeline().OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	r.Logger.Debug("rendered", "format", format, "bytes", len(data), "duration", time.Since(start))

	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, keyTypeArtifact, len(data))
	}
	return data, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
