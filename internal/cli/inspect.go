package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dagviewer/pkg/dot"
	"github.com/matzehuels/dagviewer/pkg/render"
	"github.com/matzehuels/dagviewer/pkg/resultset"
)

// nodeSummary is one row of the inspect table.
type nodeSummary struct {
	ID    string
	Attrs []string
	In    int
	Out   int
}

func (c *CLI) inspectCommand() *cobra.Command {
	var opts inputOpts

	cmd := &cobra.Command{
		Use:   "inspect [input]",
		Short: "Show nodes, their declarations and edge counts",
		Long: `Inspect lists every node the builder sees in a result set, with the
declarations accumulated for it across rows and its in/out edge counts.
DOT input is laid out with Graphviz and summarised from the layout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(argOrStdin(args), cmd.InOrStdin(), opts)
			if err != nil {
				return err
			}

			var nodes []nodeSummary
			if in.isDOT() {
				l, err := render.RenderLayout(cmd.Context(), in.doc)
				if err != nil {
					return err
				}
				nodes = summarizeLayout(l)
			} else {
				nodes = summarizeRows(in.rows)
				printKeyValue("Fields", strings.Join(in.rows.Names(), ", "))
				printKeyValue("Rows", strconv.Itoa(in.rows.Len()))
			}

			if len(nodes) == 0 {
				printWarning("No graph data")
				return nil
			}
			edges := 0
			for _, n := range nodes {
				edges += n.Out
			}
			printGraphSummary(len(nodes), edges, "")
			fmt.Fprintln(uiOut)
			fmt.Fprintln(cmd.OutOrStdout(), nodeTable(nodes))
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.format, "input-format", "", "input format: json, csv or dot (default: from extension)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "row cap (0: default, negative: unlimited)")
	return cmd
}

// summarizeRows lists endpoints in first-appearance order with their
// accumulated declarations and degrees, counting only rows the builder
// turns into edges.
func summarizeRows(rs *resultset.ResultSet) []nodeSummary {
	src, tgt := rs.Index(dot.FieldSource), rs.Index(dot.FieldTarget)
	if src == -1 || tgt == -1 {
		return nil
	}
	_, attrs := dot.NodeAttributes(rs)

	var out []nodeSummary
	index := map[string]int{}
	node := func(id string) *nodeSummary {
		i, ok := index[id]
		if !ok {
			i = len(out)
			index[id] = i
			out = append(out, nodeSummary{ID: id, Attrs: attrs[id]})
		}
		return &out[i]
	}

	for _, row := range rs.Rows {
		s, t := row.Text(src), row.Text(tgt)
		if s == "" || t == "" {
			continue
		}
		node(dot.EscapeID(s)).Out++
		node(dot.EscapeID(t)).In++
	}
	return out
}

// summarizeLayout does the same for a laid-out DOT document; the label is
// the only declaration recoverable from the layout.
func summarizeLayout(l *render.Layout) []nodeSummary {
	out := make([]nodeSummary, len(l.Nodes))
	index := make(map[string]int, len(l.Nodes))
	for i, n := range l.Nodes {
		out[i] = nodeSummary{ID: n.ID}
		if n.Label != "" && n.Label != n.ID {
			out[i].Attrs = []string{`label="` + n.Label + `"`}
		}
		index[n.ID] = i
	}
	for _, e := range l.Edges {
		if i, ok := index[e.From]; ok {
			out[i].Out++
		}
		if i, ok := index[e.To]; ok {
			out[i].In++
		}
	}
	return out
}

func nodeTable(nodes []nodeSummary) string {
	rows := make([][]string, len(nodes))
	for i, n := range nodes {
		rows[i] = []string{n.ID, strings.Join(n.Attrs, " "), strconv.Itoa(n.In), strconv.Itoa(n.Out)}
	}

	headerStyle := styleMuted.Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleFaint).
		Headers("Node", "Declarations", "In", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return styleAccent
			case col == 1:
				return styleFaint
			default:
				return styleAccent
			}
		})
	return t.Render()
}
