package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// uiOut receives status output. It is stderr so that documents written to
// stdout can be piped.
var uiOut io.Writer = os.Stderr

var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorMuted  = lipgloss.Color("245")
	colorFaint  = lipgloss.Color("240")
)

var (
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleTitle  = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	styleText   = lipgloss.NewStyle().Foreground(colorText)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleFaint  = lipgloss.NewStyle().Foreground(colorFaint)
	styleLink   = lipgloss.NewStyle().Foreground(colorLink)
	styleCached = lipgloss.NewStyle().Foreground(colorOK)
)

// mark is the leading icon of a status line; text styles the message.
type mark struct {
	icon string
	icn  lipgloss.Style
	text lipgloss.Style
}

var (
	markOK   = mark{"✓", lipgloss.NewStyle().Foreground(colorOK), lipgloss.NewStyle()}
	markFail = mark{"✗", lipgloss.NewStyle().Foreground(colorFail), lipgloss.NewStyle()}
	markWarn = mark{"!", lipgloss.NewStyle().Foreground(colorWarn), lipgloss.NewStyle().Foreground(colorWarn)}
	markInfo = mark{"›", lipgloss.NewStyle().Foreground(colorMuted), lipgloss.NewStyle()}
)

func (m mark) say(format string, args ...any) {
	fmt.Fprintln(uiOut, m.icn.Render(m.icon)+" "+m.text.Render(fmt.Sprintf(format, args...)))
}

func printSuccess(format string, args ...any) { markOK.say(format, args...) }
func printError(format string, args ...any)   { markFail.say(format, args...) }
func printWarning(format string, args ...any) { markWarn.say(format, args...) }
func printInfo(format string, args ...any)    { markInfo.say(format, args...) }

// printDetail prints an indented secondary line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(uiOut, "  "+styleFaint.Render(fmt.Sprintf(format, args...)))
}

// printFile announces a written file.
func printFile(path string) {
	fmt.Fprintln(uiOut, "  "+styleFaint.Render("→")+" "+styleText.Render(path))
}

// printKeyValue prints a label padded to a column, then the value.
func printKeyValue(key, value string) {
	fmt.Fprintln(uiOut, styleMuted.Width(12).Render(key)+" "+styleText.Render(value))
}

// printGraphSummary prints node and edge counts on one line. A non-empty
// origin ("cached", "rendered") is appended; cached output is highlighted.
func printGraphSummary(nodes, edges int, origin string) {
	parts := []string{
		styleFaint.Render(fmt.Sprintf("%d nodes", nodes)),
		styleFaint.Render(fmt.Sprintf("%d edges", edges)),
	}
	switch origin {
	case "":
	case originCached:
		parts = append(parts, styleCached.Render(origin))
	default:
		parts = append(parts, styleMuted.Render(origin))
	}
	fmt.Fprintln(uiOut, "  "+strings.Join(parts, styleFaint.Render(" · ")))
}

const (
	originCached   = "cached"
	originRendered = "rendered"
)

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(uiOut, styleFaint.Render(description+":")+" "+styleLink.Render(cmd))
}
