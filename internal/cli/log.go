// Package cli implements the dagviewer command-line interface.
//
// The commands turn query results into DOT, render them through Graphviz,
// inspect what the builder made of a batch, browse a graph in the terminal
// and run the HTTP viewer service. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
//   - format: Convert a result set into a DOT document
//   - render: Render a result set or DOT file to SVG, PNG or DOT
//   - inspect: Show nodes, their declarations and edge counts
//   - view: Interactive terminal viewer with pan and zoom
//   - serve: Run the HTTP viewer service
//   - cache: Manage the render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so the runner and server pick up the
// command's logger.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes timestamped records ("14:32:01.45"). At debug level the
// calling file and line are included too.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command and logs it as a single record.
type stage struct {
	logger *log.Logger
	name   string
	start  time.Time
}

func startStage(l *log.Logger, name string) *stage {
	return &stage{logger: l, name: name, start: time.Now()}
}

// done logs "<name> done" with keyvals and the elapsed time under "took".
func (s *stage) done(keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name+" done", keyvals...)
}

// withLogger attaches l to ctx for the runner and server to pick up.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return log.WithContext(ctx, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	return log.FromContext(ctx)
}
