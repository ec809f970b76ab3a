package config

import (
	"strconv"
	"strings"

	"github.com/matzehuels/dagviewer/pkg/errors"
)

// Rank directions accepted by the layout engine.
const (
	RankDirTB = "TB"
	RankDirLR = "LR"
	RankDirBT = "BT"
	RankDirRL = "RL"
)

// HostPrefix is the namespace the dashboard host uses for this
// visualization's formatter settings.
const HostPrefix = "display.visualizations.custom.viz_dag_viewer.dag_viewer."

// Setting keys, relative to HostPrefix.
const (
	KeyRankDir     = "rankdir"
	KeySplines     = "splines"
	KeyOverlap     = "overlap"
	KeyNodeSep     = "nodesep"
	KeyRankSep     = "ranksep"
	KeyZoomEnabled = "zoomEnabled"
)

// Options are the formatter-level layout settings. Values already declared
// in a DOT document take precedence over these.
type Options struct {
	RankDir     string  `json:"rankdir" toml:"rankdir" yaml:"rankdir" bson:"rankdir"`
	Splines     string  `json:"splines" toml:"splines" yaml:"splines" bson:"splines"`
	Overlap     string  `json:"overlap" toml:"overlap" yaml:"overlap" bson:"overlap"`
	NodeSep     float64 `json:"nodesep" toml:"nodesep" yaml:"nodesep" bson:"nodesep"`
	RankSep     float64 `json:"ranksep" toml:"ranksep" yaml:"ranksep" bson:"ranksep"`
	ZoomEnabled bool    `json:"zoom_enabled" toml:"zoom_enabled" yaml:"zoom_enabled" bson:"zoom_enabled"`
}

// Defaults returns the formatter defaults.
func Defaults() Options {
	return Options{
		RankDir:     RankDirTB,
		Splines:     "true",
		Overlap:     "false",
		NodeSep:     0.2,
		RankSep:     0.4,
		ZoomEnabled: true,
	}
}

// Validate checks rank direction and separations.
func (o Options) Validate() error {
	switch o.RankDir {
	case RankDirTB, RankDirLR, RankDirBT, RankDirRL:
	default:
		return errors.New(errors.ErrCodeInvalidOption, "invalid rankdir: %q (must be TB, LR, BT or RL)", o.RankDir)
	}
	if o.NodeSep < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "nodesep must not be negative: %v", o.NodeSep)
	}
	if o.RankSep < 0 {
		return errors.New(errors.ErrCodeInvalidOption, "ranksep must not be negative: %v", o.RankSep)
	}
	return nil
}

// FormatFloat renders a separation value the way it is written into DOT.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FromHost reads formatter settings from the host's configuration bag.
// Keys may carry HostPrefix or be bare. Missing, empty or unparsable values
// fall back to [Defaults]. Zoom is enabled only for the literal "true".
func FromHost(settings map[string]string) Options {
	o := Defaults()
	get := func(key string) (string, bool) {
		if v, ok := settings[HostPrefix+key]; ok && v != "" {
			return v, true
		}
		if v, ok := settings[key]; ok && v != "" {
			return v, true
		}
		return "", false
	}

	if v, ok := get(KeyRankDir); ok {
		o.RankDir = strings.ToUpper(strings.TrimSpace(v))
	}
	if v, ok := get(KeySplines); ok {
		o.Splines = v
	}
	if v, ok := get(KeyOverlap); ok {
		o.Overlap = v
	}
	if v, ok := get(KeyNodeSep); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.NodeSep = f
		}
	}
	if v, ok := get(KeyRankSep); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			o.RankSep = f
		}
	}
	if v, ok := get(KeyZoomEnabled); ok {
		o.ZoomEnabled = v == "true"
	}
	return o
}

// Merge overlays non-zero fields of override onto o. ZoomEnabled is taken
// from override only when setZoom is true, since false is its zero value.
func (o Options) Merge(override Options, setZoom bool) Options {
	if override.RankDir != "" {
		o.RankDir = override.RankDir
	}
	if override.Splines != "" {
		o.Splines = override.Splines
	}
	if override.Overlap != "" {
		o.Overlap = override.Overlap
	}
	if override.NodeSep != 0 {
		o.NodeSep = override.NodeSep
	}
	if override.RankSep != 0 {
		o.RankSep = override.RankSep
	}
	if setZoom {
		o.ZoomEnabled = override.ZoomEnabled
	}
	return o
}
