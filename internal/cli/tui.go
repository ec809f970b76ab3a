package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/dagviewer/pkg/dot"
	"github.com/matzehuels/dagviewer/pkg/render"
	"github.com/matzehuels/dagviewer/pkg/viewer"
)

// Pan step as a fraction of the visible extent, and zoom factor per key press.
const (
	panStep  = 0.1
	zoomStep = 1.25
)

var (
	statusBarStyle = styleMuted
	statusKeyStyle = styleAccent
	statusMsgStyle = lipgloss.NewStyle().Foreground(colorWarn)
)

type viewOpts struct {
	input  inputOpts
	layout layoutFlags
}

func (c *CLI) viewCommand() *cobra.Command {
	var opts viewOpts

	cmd := &cobra.Command{
		Use:   "view [input]",
		Short: "Browse a graph in the terminal",
		Long: `View lays the graph out with Graphviz and draws it in the terminal.

Keys: arrows or hjkl pan, + and - zoom, r or 0 reset, q quits.
Pan and zoom are disabled with --zoom=false.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd, argOrStdin(args), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.input.format, "input-format", "", "input format: json, csv or dot (default: from extension)")
	cmd.Flags().IntVar(&opts.input.maxRows, "max-rows", 0, "row cap (0: default, negative: unlimited)")
	opts.layout.register(cmd)
	return cmd
}

func (c *CLI) runView(cmd *cobra.Command, path string, opts *viewOpts) error {
	ctx := cmd.Context()

	layout, err := opts.layout.options(cmd, c.cfg.Layout)
	if err != nil {
		return err
	}
	in, err := readInput(path, cmd.InOrStdin(), opts.input)
	if err != nil {
		return err
	}
	doc := in.doc
	if !in.isDOT() {
		doc = dot.Build(in.rows)
	}
	if doc == "" {
		printWarning(render.PlaceholderText)
		return nil
	}

	v := viewer.New()
	frame := v.Update(doc, layout)
	l, err := render.RenderLayout(ctx, frame.DOT)
	if err != nil {
		return err
	}
	loggerFromContext(ctx).Debug("laid out graph", "nodes", len(l.Nodes), "edges", len(l.Edges))

	_, err = tea.NewProgram(newViewModel(l, v, in.name), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// viewModel is the bubbletea model for the terminal viewer. Viewport state
// lives in the viewer; the model only tracks the terminal.
type viewModel struct {
	layout *render.Layout
	v      *viewer.Viewer
	title  string
	cols   int
	rows   int
	status string
}

func newViewModel(l *render.Layout, v *viewer.Viewer, title string) viewModel {
	return viewModel{layout: l, v: v, title: title, cols: 80, rows: 24}
}

func (m viewModel) Init() tea.Cmd {
	return nil
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.cols, m.rows = msg.Width, msg.Height
		m.v.Reflow(m.canvasSize())
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		var ok bool
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			ok = m.v.Pan(-panStep, 0)
		case "right", "l":
			ok = m.v.Pan(panStep, 0)
		case "up", "k":
			ok = m.v.Pan(0, -panStep)
		case "down", "j":
			ok = m.v.Pan(0, panStep)
		case "+", "=":
			ok = m.v.Zoom(zoomStep)
		case "-", "_":
			ok = m.v.Zoom(1 / zoomStep)
		case "r", "0":
			ok = m.v.Reset()
		default:
			return m, nil
		}
		if !ok {
			m.status = "pan and zoom are disabled"
		}
	}
	return m, nil
}

// canvasSize is the drawing area: the terminal minus the status line.
func (m viewModel) canvasSize() (int, int) {
	return m.cols, max(m.rows-1, 1)
}

func (m viewModel) View() string {
	frame := m.v.Frame()
	cols, rows := m.canvasSize()

	var b strings.Builder
	b.WriteString(strings.Join(rasterize(m.layout, frame.Window(), cols, rows), "\n"))
	b.WriteString("\n")
	b.WriteString(m.statusLine(frame))
	return b.String()
}

func (m viewModel) statusLine(frame viewer.Frame) string {
	parts := []string{
		styleTitle.Render(m.title),
		statusBarStyle.Render(fmt.Sprintf("%d nodes · %d edges", len(m.layout.Nodes), len(m.layout.Edges))),
	}
	if frame.ZoomEnabled {
		parts = append(parts,
			statusBarStyle.Render(fmt.Sprintf("%.0f%%", frame.Viewport.Scale*100)),
			statusKeyStyle.Render("←↓↑→")+statusBarStyle.Render(" pan"),
			statusKeyStyle.Render("+/-")+statusBarStyle.Render(" zoom"),
			statusKeyStyle.Render("r")+statusBarStyle.Render(" "+strings.ToLower(render.ResetText)),
		)
	}
	parts = append(parts, statusKeyStyle.Render("q")+statusBarStyle.Render(" quit"))
	if m.status != "" {
		parts = append(parts, statusMsgStyle.Render(m.status))
	}
	return strings.Join(parts, "  ")
}
