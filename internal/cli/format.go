package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagviewer/pkg/dot"
)

type formatOpts struct {
	input  inputOpts
	layout layoutFlags
	output string
	inject bool
	font   string
}

// formatCommand creates the format command, which prints the DOT document
// built from a result set.
func (c *CLI) formatCommand() *cobra.Command {
	var opts formatOpts

	cmd := &cobra.Command{
		Use:   "format [input]",
		Short: "Convert a result set into a DOT document",
		Long: `Format reads a result set (JSON or CSV; "-" or no argument reads stdin)
and prints the DOT document built from its source/target rows. With --inject
the layout options are written into the graph header as well.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFormat(cmd, argOrStdin(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&opts.inject, "inject", false, "inject layout options into the document")
	cmd.Flags().StringVar(&opts.font, "font", dot.DefaultFontName, "font for graph, nodes and edges")
	cmd.Flags().StringVar(&opts.input.format, "input-format", "", "input format: json, csv or dot (default: from extension)")
	cmd.Flags().IntVar(&opts.input.maxRows, "max-rows", 0, "row cap (0: default, negative: unlimited)")
	opts.layout.register(cmd)

	return cmd
}

func (c *CLI) runFormat(cmd *cobra.Command, path string, opts *formatOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := readInput(path, cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	doc := in.doc
	if !in.isDOT() {
		var stats dot.Stats
		doc, stats = dot.Builder{FontName: opts.font}.Build(in.rows)
		logger.Debug("built document", "rows", stats.Rows, "nodes", stats.Nodes, "edges", stats.Edges, "passthrough", stats.Passthrough)
	}
	if doc == "" {
		printWarning("No graph data: input needs source and target fields or a dot field")
		return nil
	}

	if opts.inject {
		layout, err := opts.layout.options(cmd, c.cfg.Layout)
		if err != nil {
			return err
		}
		doc = dot.Inject(doc, layout)
	}

	if opts.output == "" {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), doc)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(doc+"\n"), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printFile(opts.output)
	printNextStep("Render it", appName+" render "+opts.output)
	return nil
}

func argOrStdin(args []string) string {
	if len(args) == 0 {
		return "-"
	}
	return args[0]
}
