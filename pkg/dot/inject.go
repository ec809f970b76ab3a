package dot

import (
	"regexp"
	"strings"

	"github.com/matzehuels/dagviewer/pkg/config"
)

// Layout attribute names handled by Inject.
const (
	AttrRankDir = "rankdir"
	AttrSplines = "splines"
	AttrOverlap = "overlap"
	AttrNodeSep = "nodesep"
	AttrRankSep = "ranksep"
)

var (
	declaredRe = map[string]*regexp.Regexp{}
	headerRe   = regexp.MustCompile(`(?i)^(\s*(?:di)?graph\s*(?:\w+)?\s*\{)`)
)

func init() {
	for _, name := range []string{AttrRankDir, AttrSplines, AttrOverlap, AttrNodeSep, AttrRankSep} {
		declaredRe[name] = attrPattern(name)
	}
}

func attrPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*=`)
}

// HasAttribute reports whether name is assigned anywhere in doc
// (case-insensitive, whole word, optional spaces before '=').
func HasAttribute(doc, name string) bool {
	re, ok := declaredRe[name]
	if !ok {
		re = attrPattern(name)
	}
	return re.MatchString(doc)
}

// Inject adds the layout options doc does not already declare, right after
// the opening brace of the graph. Declarations in doc always win.
//
// Documents that are blank, lack a recognizable "graph {" or "digraph name {"
// header, or already declare everything are returned unchanged.
func Inject(doc string, opts config.Options) string {
	if strings.TrimSpace(doc) == "" {
		return doc
	}

	var attrs []string
	if opts.RankDir != "" && !HasAttribute(doc, AttrRankDir) {
		attrs = append(attrs, AttrRankDir+`="`+opts.RankDir+`"`)
	}
	if opts.Splines != "" && !HasAttribute(doc, AttrSplines) {
		attrs = append(attrs, AttrSplines+"="+opts.Splines)
	}
	if opts.Overlap != "" && !HasAttribute(doc, AttrOverlap) {
		attrs = append(attrs, AttrOverlap+"="+opts.Overlap)
	}
	if opts.NodeSep != 0 && !HasAttribute(doc, AttrNodeSep) {
		attrs = append(attrs, AttrNodeSep+`="`+config.FormatFloat(opts.NodeSep)+`"`)
	}
	if opts.RankSep != 0 && !HasAttribute(doc, AttrRankSep) {
		attrs = append(attrs, AttrRankSep+`="`+config.FormatFloat(opts.RankSep)+`"`)
	}
	if len(attrs) == 0 {
		return doc
	}

	loc := headerRe.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	pos := loc[1]
	return doc[:pos] + "\n" + indent + strings.Join(attrs, ";\n"+indent) + ";" + doc[pos:]
}
