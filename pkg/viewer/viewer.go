package viewer

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/dagviewer/pkg/cache"
	"github.com/matzehuels/dagviewer/pkg/config"
	"github.com/matzehuels/dagviewer/pkg/dot"
)

// State is the persisted form of a Viewer.
type State struct {
	ID        string         `json:"id" bson:"_id"`
	Document  string         `json:"document" bson:"document"`
	Options   config.Options `json:"options" bson:"options"`
	Width     int            `json:"width" bson:"width"`
	Height    int            `json:"height" bson:"height"`
	Viewport  Viewport       `json:"viewport" bson:"viewport"`
	Mounted   bool           `json:"mounted" bson:"mounted"`
	UpdatedAt time.Time      `json:"updated_at" bson:"updated_at"`
}

// Viewer holds the last-known-good document and options for one display
// and produces frames from them. It is not safe for concurrent use.
type Viewer struct {
	st    State
	keyer cache.Keyer
	now   func() time.Time
}

// New returns an unmounted viewer with default options and a random ID.
func New() *Viewer {
	return Restore(State{ID: uuid.NewString(), Options: config.Defaults()})
}

// Restore rebuilds a viewer from persisted state.
func Restore(st State) *Viewer {
	return &Viewer{st: st, keyer: cache.NewDefaultKeyer(), now: time.Now}
}

// ID returns the viewer identifier.
func (v *Viewer) ID() string { return v.st.ID }

// State returns a copy of the persisted state.
func (v *Viewer) State() State { return v.st }

// Mounted reports whether Update has been called at least once.
func (v *Viewer) Mounted() bool { return v.st.Mounted }

// Update stores opts and, when doc is non-empty, makes it the current
// document. An empty doc keeps showing the previous document, so a query
// that momentarily returns nothing does not blank the display. The viewport
// is reset whenever the frame content changes.
func (v *Viewer) Update(doc string, opts config.Options) Frame {
	prev := v.key()

	v.st.Options = opts
	if doc != "" {
		v.st.Document = doc
	}
	v.st.Mounted = true
	v.touch()

	if v.key() != prev {
		v.st.Viewport = Fitted()
	}
	return v.Frame()
}

// Reflow records a new container size and re-renders. It does nothing
// before the first Update or while there is no document; ok reports
// whether a frame was produced.
func (v *Viewer) Reflow(width, height int) (f Frame, ok bool) {
	if !v.st.Mounted || v.st.Document == "" {
		return Frame{}, false
	}
	v.st.Width, v.st.Height = max(width, 0), max(height, 0)
	v.touch()
	return v.Frame(), true
}

// Zoom multiplies the scale by factor around the visible centre, clamped
// to [MinScale, MaxScale]. It reports false when pan/zoom is disabled or
// factor is not positive.
func (v *Viewer) Zoom(factor float64) bool {
	if !v.st.Options.ZoomEnabled || factor <= 0 {
		return false
	}
	v.st.Viewport = v.st.Viewport.zoom(factor)
	v.touch()
	return true
}

// Pan moves the view by dx, dy fractions of the visible extent.
// It reports false when pan/zoom is disabled.
func (v *Viewer) Pan(dx, dy float64) bool {
	if !v.st.Options.ZoomEnabled {
		return false
	}
	v.st.Viewport = v.st.Viewport.pan(dx, dy)
	v.touch()
	return true
}

// Reset returns to the fitted view. It reports false when pan/zoom is
// disabled.
func (v *Viewer) Reset() bool {
	if !v.st.Options.ZoomEnabled {
		return false
	}
	v.st.Viewport = Fitted()
	v.touch()
	return true
}

// Frame returns what should be displayed now. Options are injected on
// every call so the document always reflects the latest settings.
func (v *Viewer) Frame() Frame {
	f := Frame{
		Width:       v.st.Width,
		Height:      v.st.Height,
		ZoomEnabled: v.st.Options.ZoomEnabled,
		Viewport:    v.st.Viewport.normalized(),
	}
	if v.st.Document != "" {
		f.DOT = dot.Inject(v.st.Document, v.st.Options)
		f.Key = v.keyer.FrameKey(f.DOT, f.ZoomEnabled)
	}
	if !f.ZoomEnabled {
		f.Viewport = Fitted()
	}
	return f
}

func (v *Viewer) key() string {
	return v.Frame().Key
}

func (v *Viewer) touch() {
	v.st.UpdatedAt = v.now().UTC()
}
