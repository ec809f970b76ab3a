package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagviewer/pkg/config"
)

// layoutFlags are the layout options shared by every command that produces
// a drawing. Unset flags leave the config file value in place.
type layoutFlags struct {
	rankdir string
	splines string
	overlap string
	nodesep float64
	ranksep float64
	zoom    bool
}

func (f *layoutFlags) register(cmd *cobra.Command) {
	d := config.Defaults()
	fs := cmd.Flags()
	fs.StringVar(&f.rankdir, "rankdir", d.RankDir, "rank direction: TB, LR, BT or RL")
	fs.StringVar(&f.splines, "splines", d.Splines, "edge routing (true, false, ortho, polyline, curved, ...)")
	fs.StringVar(&f.overlap, "overlap", d.Overlap, "node overlap handling")
	fs.Float64Var(&f.nodesep, "nodesep", d.NodeSep, "separation between nodes in a rank (inches)")
	fs.Float64Var(&f.ranksep, "ranksep", d.RankSep, "separation between ranks (inches)")
	fs.BoolVar(&f.zoom, "zoom", d.ZoomEnabled, "enable pan and zoom")
}

// options merges flags the user set explicitly onto base and validates the
// result.
func (f *layoutFlags) options(cmd *cobra.Command, base config.Options) (config.Options, error) {
	fs := cmd.Flags()
	var o config.Options
	if fs.Changed("rankdir") {
		o.RankDir = strings.ToUpper(f.rankdir)
	}
	if fs.Changed("splines") {
		o.Splines = f.splines
	}
	if fs.Changed("overlap") {
		o.Overlap = f.overlap
	}
	if fs.Changed("nodesep") {
		o.NodeSep = f.nodesep
	}
	if fs.Changed("ranksep") {
		o.RankSep = f.ranksep
	}
	o.ZoomEnabled = f.zoom

	merged := base.Merge(o, fs.Changed("zoom"))
	if err := merged.Validate(); err != nil {
		return config.Options{}, err
	}
	return merged, nil
}
