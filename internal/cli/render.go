package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/dagviewer/pkg/errors"
	"github.com/matzehuels/dagviewer/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	input   inputOpts
	layout  layoutFlags
	output  string   // output file (single format) or base path (multiple)
	formats []string // svg, png, dot
	width   int
	height  int
	noCache bool
	refresh bool
}

// renderCommand creates the render command.
//
// Default settings:
//   - format: svg
//   - width: 800px, height: 600px
//   - cached unless --no-cache
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{width: defaultWidth, height: defaultHeight}

	cmd := &cobra.Command{
		Use:   "render [input]",
		Short: "Render a result set or DOT file to SVG, PNG or DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := errors.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd, argOrStdin(args), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, dot (comma-separated)")
	cmd.Flags().IntVar(&opts.width, "width", opts.width, "frame width in pixels (0 fills the container)")
	cmd.Flags().IntVar(&opts.height, "height", opts.height, "frame height in pixels (0 fills the container)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render and overwrite cached outputs")
	cmd.Flags().StringVar(&opts.input.format, "input-format", "", "input format: json, csv or dot (default: from extension)")
	cmd.Flags().IntVar(&opts.input.maxRows, "max-rows", 0, "row cap (0: default, negative: unlimited)")
	opts.layout.register(cmd)

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, path string, opts *renderOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	layout, err := opts.layout.options(cmd, c.cfg.Layout)
	if err != nil {
		return err
	}
	in, err := readInput(path, cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	popts := pipeline.Options{
		Layout:  layout,
		Formats: opts.formats,
		Width:   opts.width,
		Height:  opts.height,
		Refresh: opts.refresh,
		Logger:  logger,
	}

	st := startStage(logger, "render")
	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	var result *pipeline.Result
	if in.isDOT() {
		result, err = runner.ExecuteDocument(ctx, in.doc, popts)
	} else {
		result, err = runner.Execute(ctx, in.rows, popts)
	}
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if result.DOT == "" {
		printWarning("No graph data: wrote placeholder")
	}
	paths := outputPaths(opts.output, in.name, opts.formats)
	for _, f := range opts.formats {
		if err := os.WriteFile(paths[f], result.Artifacts[f], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", paths[f], err)
		}
	}

	st.done("outputs", len(opts.formats), "cached", result.CacheInfo.RenderHit)
	origin := originRendered
	if result.CacheInfo.RenderHit {
		origin = originCached
	}
	printGraphSummary(result.Stats.Nodes, result.Stats.Edges, origin)
	for _, f := range opts.formats {
		printFile(paths[f])
	}
	return nil
}

// outputPaths maps each format to its file. A single format writes to
// output exactly; multiple formats use output (minus extension) as a base.
// Without output, the input name is the base.
func outputPaths(output, name string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		paths[formats[0]] = output
		return paths
	}

	base := name
	if output != "" {
		base = strings.TrimSuffix(output, filepath.Ext(output))
	}
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}
